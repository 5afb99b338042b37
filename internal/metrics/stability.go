package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// PeakDisplacement is the largest absolute displacement seen.
type PeakDisplacement struct {
	name string
	peak float64
	step int
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) OnStep(step int, x mat.Vector, u float64) {
	d := math.Abs(x.AtVec(dynamo.Displacement))
	if d > p.peak {
		p.peak = d
		p.step = step
	}
}

func (p *PeakDisplacement) Value() float64 { return p.peak }

// Step returns the step at which the peak occurred, or 0 if none has.
func (p *PeakDisplacement) Step() int { return p.step }

func (p *PeakDisplacement) Reset() {
	p.peak = 0
	p.step = 0
}

// Bounded is the fraction of steps whose displacement stays within
// threshold. Non-finite states always count as violations.
type Bounded struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{
		name:      "bounded",
		threshold: threshold,
	}
}

func (s *Bounded) Name() string {
	return s.name
}

func (s *Bounded) OnStep(step int, x mat.Vector, u float64) {
	s.samples++
	d := x.AtVec(dynamo.Displacement)
	if math.IsNaN(d) || math.Abs(d) > s.threshold {
		s.violations++
	}
}

func (s *Bounded) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounded) Reset() {
	s.violations = 0
	s.samples = 0
}
