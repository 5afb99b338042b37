package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Float is a float64 that encodes NaN and ±Inf as JSON null, so a diverged
// run still exports.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type ExportData struct {
	ID      string           `json:"id"`
	Params  dynamo.Params    `json:"params"`
	Dt      float64          `json:"dt"`
	Steps   int              `json:"steps"`
	Input   string           `json:"input"`
	Finite  bool             `json:"finite"`
	Times   []Float          `json:"times"`
	States  [][]Float        `json:"states"`
	Forces  []Float          `json:"forces"`
	Metrics map[string]Float `json:"metrics"`
}

// ExportJSON writes a run as a single indented JSON document. Non-finite
// values are written as null.
func ExportJSON(w io.Writer, meta *RunMetadata, traj *dynamo.Trajectory) error {
	data := ExportData{
		ID:      meta.ID,
		Params:  meta.Params,
		Dt:      traj.Dt(),
		Steps:   traj.Steps(),
		Input:   meta.Input,
		Finite:  traj.IsFinite(),
		Times:   toFloats(traj.Times()),
		States:  make([][]Float, traj.Len()),
		Forces:  toFloats(traj.Forces()),
		Metrics: make(map[string]Float, len(meta.Metrics)),
	}

	for i := range data.States {
		data.States[i] = toFloats(traj.At(i).RawVector().Data)
	}
	for name, v := range meta.Metrics {
		data.Metrics[name] = Float(v)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func toFloats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}
