package metrics

import "github.com/san-kum/msdsim/internal/dynamo"

// Metric accumulates a scalar summary of a run while it is simulated.
// Pass metrics to dynamo.Simulate as observers.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// SceneBound is the displacement beyond which the mass leaves the rendered
// scene.
const SceneBound = 7.0

// Default returns the metrics the CLI reports for every run.
func Default(p dynamo.Params) []Metric {
	return []Metric{
		NewEnergy(p),
		NewEnergyDrift(p),
		NewPeakDisplacement(),
		NewControlEffort(),
		NewBounded(SceneBound),
	}
}

// Values collects the current value of each metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Observers converts ms to the observer slice Simulate accepts.
func Observers(ms []Metric) []dynamo.Observer {
	out := make([]dynamo.Observer, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}
