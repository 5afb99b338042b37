package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/msdsim/internal/automation"
	"github.com/san-kum/msdsim/internal/experiment"
	"github.com/san-kum/msdsim/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mcTrials  int
	mcSigma   float64
	mcSeed    uint64
	mcWorkers int
)

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	logger.Info("running scenario",
		zap.String("scenario", scenario.Name),
		zap.Int("steps", len(scenario.Steps)))

	outcomes, runErr := automation.RunScenario(cmd.Context(), scenario, experiment.WithLogger(logger))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tSTATES\tPEAK\tSTABLE")
	for _, o := range outcomes {
		runID, err := st.Save(o.Experiment.Metadata(o.Result), o.Result.Trajectory)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%v\n",
			o.Name,
			runID,
			o.Result.Trajectory.Len(),
			o.Result.Metrics["peak_displacement"],
			o.Result.Stability.Stable,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.Debug("monte carlo",
		zap.String("base", name),
		zap.Int("trials", mcTrials),
		zap.Float64("sigma", mcSigma),
		zap.Uint64("seed", mcSeed))

	results, err := automation.RunMonteCarlo(cmd.Context(), automation.MonteCarloConfig{
		Base:    cfg,
		Sigma:   mcSigma,
		Trials:  mcTrials,
		Seed:    mcSeed,
		Workers: mcWorkers,
	})
	if err != nil {
		return err
	}

	s := automation.Summarize(results)
	fmt.Printf("monte carlo: %s, %d trials, sigma %g\n\n", name, s.Trials, mcSigma)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bounded\t%.1f%%\n", 100*s.BoundedRatio)
	fmt.Fprintf(w, "final displacement\t%.4f ± %.4f\n", s.FinalMean, s.FinalStd)
	fmt.Fprintf(w, "peak displacement\tmean %.4f, max %.4f\n", s.PeakMean, s.PeakMax)
	return w.Flush()
}
