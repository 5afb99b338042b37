package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/metrics"
	"github.com/san-kum/msdsim/internal/storage"
	"go.uber.org/zap"
)

// Experiment is one configured simulation: a validated config with its model,
// force input and metrics already built.
type Experiment struct {
	name      string
	cfg       *config.Config
	model     *dynamo.Model
	input     dynamo.Input
	metrics   []metrics.Metric
	observers []dynamo.Observer
	log       *zap.Logger
}

type Option func(*Experiment)

// WithLogger routes run progress to l instead of discarding it.
func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) { e.log = l }
}

// WithObserver adds o to every run, after the metrics.
func WithObserver(o dynamo.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, o) }
}

func New(name string, cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := cfg.BuildModel()
	if err != nil {
		return nil, err
	}
	input, err := cfg.BuildInput()
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		name:    name,
		cfg:     cfg.Clone(),
		model:   model,
		input:   input,
		metrics: metrics.Default(cfg.Params),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Name() string           { return e.name }
func (e *Experiment) Config() *config.Config { return e.cfg.Clone() }
func (e *Experiment) Model() *dynamo.Model   { return e.model }

// Result is the outcome of one run.
type Result struct {
	Trajectory *dynamo.Trajectory
	Stability  dynamo.StabilityReport
	Metrics    map[string]float64
	Elapsed    time.Duration
}

// Run simulates the configured number of steps. Metrics are reset first so
// an Experiment can be run more than once.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	stab, err := e.model.Stability()
	if err != nil {
		return nil, fmt.Errorf("stability check: %w", err)
	}
	if !stab.Stable {
		e.log.Warn("step size exceeds the stability bound, the response will grow",
			zap.String("experiment", e.name),
			zap.Float64("spectral_radius", stab.SpectralRadius))
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	obs := append(metrics.Observers(e.metrics), e.observers...)

	e.log.Debug("simulating",
		zap.String("experiment", e.name),
		zap.Int("steps", e.cfg.Steps),
		zap.Float64("dt", e.cfg.Dt))

	start := time.Now()
	traj, err := dynamo.Simulate(ctx, e.model, e.cfg.GetInitState(), e.input, e.cfg.Steps, obs...)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if !traj.IsFinite() {
		e.log.Warn("trajectory diverged to non-finite values", zap.String("experiment", e.name))
	}

	return &Result{
		Trajectory: traj,
		Stability:  stab,
		Metrics:    metrics.Values(e.metrics),
		Elapsed:    elapsed,
	}, nil
}

// Metadata describes r for the run store.
func (e *Experiment) Metadata(r *Result) storage.RunMetadata {
	stab := r.Stability
	return storage.RunMetadata{
		Name:      e.name,
		Params:    e.cfg.Params,
		Input:     e.cfg.Input.Type,
		Stability: &stab,
		Metrics:   r.Metrics,
	}
}
