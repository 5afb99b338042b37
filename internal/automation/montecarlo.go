package automation

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/metrics"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

// MonteCarloConfig perturbs the initial state of Base with gaussian noise
// and simulates every perturbed start.
type MonteCarloConfig struct {
	Base *config.Config
	// Sigma is the standard deviation added to velocity and displacement.
	Sigma  float64
	Trials int
	Seed   uint64
	// Workers bounds concurrent trials. Zero means GOMAXPROCS.
	Workers int
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	Trial     int
	InitState [dynamo.StateDim]float64
	Final     [dynamo.StateDim]float64
	Peak      float64
	// Bounded is true when the mass never left the scene and the run stayed finite.
	Bounded bool
}

// RunMonteCarlo executes cfg.Trials simulations. Initial states are drawn
// up front from a seeded source, so results depend only on cfg.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.Base == nil {
		return nil, fmt.Errorf("%w: monte carlo needs a base config", config.ErrInvalidConfig)
	}
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", config.ErrInvalidConfig, cfg.Trials)
	}
	if !(cfg.Sigma > 0) || math.IsInf(cfg.Sigma, 0) {
		return nil, fmt.Errorf("%w: sigma must be positive, got %g", config.ErrInvalidConfig, cfg.Sigma)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}

	model, err := cfg.Base.BuildModel()
	if err != nil {
		return nil, err
	}
	input, err := cfg.Base.BuildInput()
	if err != nil {
		return nil, err
	}

	mean := []float64{cfg.Base.InitState.Velocity, cfg.Base.InitState.Displacement}
	v := cfg.Sigma * cfg.Sigma
	cov := mat.NewSymDense(dynamo.StateDim, []float64{v, 0, 0, v})
	dist, ok := distmv.NewNormal(mean, cov, rand.NewSource(cfg.Seed))
	if !ok {
		return nil, fmt.Errorf("%w: covariance is not positive definite", config.ErrInvalidConfig)
	}

	starts := make([][]float64, cfg.Trials)
	for i := range starts {
		starts[i] = dist.Rand(nil)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]MonteCarloResult, cfg.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, x0 := range starts {
		g.Go(func() error {
			peak := metrics.NewPeakDisplacement()
			bounded := metrics.NewBounded(metrics.SceneBound)

			traj, err := dynamo.Simulate(gctx, model, dynamo.NewState(x0[dynamo.Velocity], x0[dynamo.Displacement]),
				input, cfg.Base.Steps, peak, bounded)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}

			final := traj.Final()
			results[i] = MonteCarloResult{
				Trial:     i,
				InitState: [dynamo.StateDim]float64{x0[dynamo.Velocity], x0[dynamo.Displacement]},
				Final:     [dynamo.StateDim]float64{final.AtVec(dynamo.Velocity), final.AtVec(dynamo.Displacement)},
				Peak:      peak.Value(),
				Bounded:   bounded.Value() == 1 && traj.IsFinite(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloSummary aggregates trial results.
type MonteCarloSummary struct {
	Trials       int
	BoundedRatio float64
	FinalMean    float64
	FinalStd     float64
	PeakMean     float64
	PeakMax      float64
}

func Summarize(results []MonteCarloResult) MonteCarloSummary {
	if len(results) == 0 {
		return MonteCarloSummary{}
	}

	finals := make([]float64, len(results))
	peaks := make([]float64, len(results))
	bounded := 0
	for i, r := range results {
		finals[i] = r.Final[dynamo.Displacement]
		peaks[i] = r.Peak
		if r.Bounded {
			bounded++
		}
	}

	s := MonteCarloSummary{
		Trials:       len(results),
		BoundedRatio: float64(bounded) / float64(len(results)),
		PeakMean:     stat.Mean(peaks, nil),
	}
	s.FinalMean, s.FinalStd = stat.MeanStdDev(finals, nil)
	for _, p := range peaks {
		s.PeakMax = math.Max(s.PeakMax, p)
	}
	return s
}
