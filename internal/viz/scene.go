package viz

import (
	"github.com/san-kum/msdsim/internal/render"
)

// TerminalScene is the render scene with a coil amplitude large enough to
// survive the coarse Braille resolution.
func TerminalScene() render.Scene {
	s := render.DefaultScene()
	s.CoilAmplitude = 0.6
	s.CoilPoints = 60
	return s
}

// DrawSystem draws the spring, damper and mass at displacement d. The
// vertical range is narrowed around the mechanism so it is not a thin line
// in a short terminal.
func DrawSystem(c *Canvas, s render.Scene, d float64) {
	c.Clear()
	vp := NewViewport(c, s.XMin, s.XMax, -1.5, 1.5)

	coil := s.Coil(d)
	xs, ys := make([]float64, len(coil)), make([]float64, len(coil))
	for i, p := range coil {
		xs[i], ys[i] = p.X, p.Y
	}
	vp.Polyline(xs, ys)

	damper := s.Damper(d)
	vp.Polyline([]float64{damper[0].X, damper[1].X}, []float64{-0.9, -0.9})

	mass := s.Mass(d)
	vp.Rect(mass[0].X, mass[0].Y*3, mass[2].X, mass[2].Y*3)

	// wall at the spring anchor
	vp.Polyline([]float64{s.SpringAnchor, s.SpringAnchor}, []float64{-1.2, 1.2})
}
