package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/msdsim/internal/analysis"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/experiment"
	"github.com/san-kum/msdsim/internal/render"
	"github.com/san-kum/msdsim/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runName  string
	noSave   bool
	writeGIF bool

	sweepFrom  float64
	sweepTo    float64
	sweepCount int
)

// loadConfig resolves the run configuration: preset, then config file, then
// any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "reference"

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg, name = p, presetName
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Params.Mass = mass
	}
	if flags.Changed("stiffness") {
		cfg.Params.Stiffness = stiffness
	}
	if flags.Changed("damping") {
		cfg.Params.Damping = damping
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("velocity") {
		cfg.InitState.Velocity = velocity
	}
	if flags.Changed("displacement") {
		cfg.InitState.Displacement = displacement
	}
	if flags.Changed("force") {
		cfg.Input.Type = config.InputConstant
		cfg.Input.Force = force
	}
	if flags.Changed("input") {
		cfg.Input.Type = inputType
	}

	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runName != "" {
		name = runName
	}

	exp, err := experiment.New(name, cfg, experiment.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", name)
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	traj := result.Trajectory

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("states: %d\n", traj.Len())
	fmt.Printf("stability: %s\n", result.Stability)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Metadata(result), traj)
		if err != nil {
			return err
		}
		logger.Debug("run saved", zap.String("run", runID), zap.String("dir", dataDir))
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	if writeGIF {
		scene := render.DefaultScene()
		scene.Width, scene.Height = cfg.Render.Width, cfg.Render.Height
		if err := writeAnimation(cmd, cfg.Render.Output, traj, scene, cfg.FrameRate(), 0); err != nil {
			return err
		}
	}

	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	param := args[0]

	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	in, err := cfg.BuildInput()
	if err != nil {
		return err
	}

	logger.Debug("sweeping",
		zap.String("base", name),
		zap.String("param", param),
		zap.Float64("from", sweepFrom),
		zap.Float64("to", sweepTo),
		zap.Int("count", sweepCount))

	points, err := analysis.Sweep(cmd.Context(), cfg.Params, cfg.Dt, param, sweepFrom, sweepTo, sweepCount,
		cfg.GetInitState(), in, cfg.Steps)
	if err != nil {
		return err
	}

	fmt.Printf("sweep of %s over %d steps (dt %.4fs)\n\n", param, cfg.Steps, cfg.Dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tPEAK\tRADIUS\tSTABLE\n", strings.ToUpper(param))
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.4f\t%.4f\t%.6f\t%v\n", p.Param, p.Final, p.Peak, p.SpectralRadius, p.Stable)
	}
	return w.Flush()
}
