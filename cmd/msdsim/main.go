package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/san-kum/msdsim/internal/analysis"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir string
	verbose bool

	logger = zap.NewNop()

	// simulation flags shared by run, sweep and montecarlo
	mass         float64
	stiffness    float64
	damping      float64
	dt           float64
	steps        int
	velocity     float64
	displacement float64
	force        float64
	inputType    string
	configFile   string
	presetName   string
)

// main wires the msdsim commands. Running it with no subcommand simulates the
// reference scenario and writes its animation, then exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "msdsim",
		Short: "mass-spring-damper simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			writeGIF = true
			return runSimulation(cmd, args)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".msdsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset or config name)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&writeGIF, "gif", false, "also render the animation to the configured output")

	sweepCmd := &cobra.Command{
		Use:   "sweep [mass|stiffness|damping]",
		Short: "re-run the model across a parameter range",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParam,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 5, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 50, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 10, "number of values")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "simulate gaussian perturbations of the initial state",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcSigma, "sigma", 0.1, "standard deviation of the initial state noise")
	monteCarloCmd.Flags().Uint64Var(&mcSeed, "seed", 1, "random seed")
	monteCarloCmd.Flags().IntVar(&mcWorkers, "workers", 0, "trials run in parallel (0 = all cpus)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "graph width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "graph height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and phase analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&welchSegment, "segment", analysis.DefaultSegment, "welch segment length")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a run to a gif animation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVarP(&outputPath, "out", "o", config.DefaultOutput, "gif output path")
	renderCmd.Flags().IntVar(&renderFPS, "fps", 0, "frame rate (defaults to 1/dt)")
	renderCmd.Flags().IntVar(&renderWidth, "width", config.DefaultWidth, "frame width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", config.DefaultHeight, "frame height in pixels")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "frames rendered in parallel (0 = all cpus)")
	renderCmd.Flags().StringVar(&pngPath, "png", "", "also save a response plot image")
	renderCmd.Flags().StringVar(&svgPath, "svg", "", "also save the displacement path as svg")
	renderCmd.Flags().StringVar(&phaseSVGPath, "phase-svg", "", "also save the phase portrait as svg")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveReplay,
	}
	liveCmd.Flags().StringVar(&themeName, "theme", "minimal", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, batchCmd, monteCarloCmd, listCmd, plotCmd, analyzeCmd, renderCmd, liveCmd, presetsCmd, exportCSVCmd, exportJSONCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "mass m")
	cmd.Flags().Float64Var(&stiffness, "stiffness", config.DefaultStiffness, "spring constant k")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient c")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/config.DefaultFPS, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&velocity, "velocity", 0, "initial velocity")
	cmd.Flags().Float64Var(&displacement, "displacement", 0, "initial displacement")
	cmd.Flags().Float64Var(&force, "force", 0, "constant external force (sets --input constant)")
	cmd.Flags().StringVar(&inputType, "input", config.InputReference, "input type: none, constant, schedule, reference")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&presetName, "preset", "", "use preset configuration")
}
