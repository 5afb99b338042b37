package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/msdsim/internal/analysis"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/storage"
	"github.com/san-kum/msdsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

var (
	plotWidth    int
	plotHeight   int
	welchSegment int
	themeName    string
)

// loadRun reads the run named by args, or the latest run when args is empty.
func loadRun(args []string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	runID := storage.Latest
	if len(args) > 0 {
		runID = args[0]
	}
	meta, traj, err := storage.New(dataDir).LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded run", zap.String("run", meta.ID), zap.Int("states", traj.Len()))
	return meta, traj, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tM\tK\tC\tINPUT\tSTABLE")

	for _, run := range runs {
		stable := "-"
		if run.Stability != nil {
			stable = fmt.Sprint(run.Stability.Stable)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4fs\t%g\t%g\t%g\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Params.Mass,
			run.Params.Stiffness,
			run.Params.Damping,
			run.Input,
			stable,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args)
	if err != nil {
		return err
	}
	if !traj.IsFinite() {
		return fmt.Errorf("run %s diverged, nothing to plot", meta.ID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("params: m=%g k=%g c=%g\n", meta.Params.Mass, meta.Params.Stiffness, meta.Params.Damping)
	fmt.Printf("samples: %d\n\n", traj.Len())

	series := []struct {
		caption string
		data    []float64
	}{
		{"displacement", traj.Displacements()},
		{"velocity", traj.Velocities()},
		{"force", traj.Forces()},
	}

	for _, s := range series {
		if len(s.data) == 0 {
			continue
		}
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args)
	if err != nil {
		return err
	}
	if !traj.IsFinite() {
		return fmt.Errorf("run %s diverged, nothing to analyze", meta.ID)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("params: m=%g k=%g c=%g\n\n", meta.Params.Mass, meta.Params.Stiffness, meta.Params.Damping)

	spec, err := analysis.DisplacementSpectrum(traj)
	if err != nil {
		return err
	}

	plotData := spec.Power[:max(2, len(spec.Power)/4)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum of displacement, 0 to %.2f hz", spec.Freqs[len(plotData)-1])),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := spec.Freqs[spec.Peak()]
	fmt.Printf("dominant frequency: %.3f hz\n", freq)

	if welch, err := analysis.WelchPSD(traj, welchSegment); err == nil {
		fmt.Printf("welch peak: %.3f hz (segment %d)\n", welch.Freqs[welch.Peak()], welchSegment)
	} else {
		logger.Debug("skipping welch estimate", zap.Int("segment", welchSegment), zap.Error(err))
	}

	if m, err := dynamo.New(meta.Params, meta.Dt); err == nil {
		fmt.Printf("natural frequency: %.3f hz\n", m.NaturalFrequency()/(2*math.Pi))
		fmt.Printf("damping ratio: %.3f\n", m.DampingRatio())
	}

	// oscillate around the mean of the second half so a constant force
	// offset does not hide the crossings
	from := traj.Len() / 2
	tail := traj.Displacements()[from:]
	level := floats.Sum(tail) / float64(len(tail))
	if period := analysis.Period(traj, level, from); period > 0 {
		fmt.Printf("period: %.3f s\n", period)
	} else if freq > 0 {
		fmt.Printf("period: %.3f s (from spectrum)\n", 1/freq)
	}

	fmt.Printf("\nphase portrait (displacement vs velocity):\n")
	fmt.Print(analysis.NewPhasePortrait(traj).ASCII(70, 20))

	return nil
}

func liveReplay(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args)
	if err != nil {
		return err
	}
	if !traj.IsFinite() {
		return fmt.Errorf("run %s diverged, nothing to replay", meta.ID)
	}

	m := viz.NewReplay(meta.Name, meta.Params, traj).WithTheme(viz.GetTheme(themeName))
	return viz.RunReplay(m)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tM\tK\tC\tSTEPS\tINIT\tINPUT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%.4g\t%d\t[%g, %g]\t%s\n",
			name,
			p.Params.Mass,
			p.Params.Stiffness,
			p.Params.Damping,
			p.Steps,
			p.InitState.Velocity,
			p.InitState.Displacement,
			p.Input.Type,
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}
