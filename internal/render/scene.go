package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Scene describes how a displacement is drawn: a fixed spring anchor, a coil
// from the anchor to the mass, a damper rod from SpringAnchor+SpringLength to
// the mass, and the mass itself as a rectangle whose left edge sits at the
// displacement.
type Scene struct {
	XMin, XMax float64
	YMin, YMax float64

	SpringAnchor  float64
	SpringLength  float64
	CoilPoints    int
	CoilTurns     float64
	CoilAmplitude float64

	MassWidth  float64
	MassHeight float64
	MassY      float64

	SpringColor color.Color
	DamperColor color.Color
	MassColor   color.Color
	SpringWidth vg.Length
	DamperWidth vg.Length

	// Width and Height are the frame size in pixels.
	Width, Height int
}

func DefaultScene() Scene {
	return Scene{
		XMin: -7, XMax: 7,
		YMin: -7, YMax: 7,

		SpringAnchor:  -2,
		SpringLength:  1.5,
		CoilPoints:    100,
		CoilTurns:     5,
		CoilAmplitude: 0.05,

		MassWidth:  0.5,
		MassHeight: 0.5,
		MassY:      -0.25,

		SpringColor: color.Black,
		DamperColor: color.Gray{Y: 128},
		MassColor:   color.RGBA{B: 255, A: 255},
		SpringWidth: vg.Points(2),
		DamperWidth: vg.Points(4),

		Width:  640,
		Height: 480,
	}
}

func (s Scene) Validate() error {
	switch {
	case s.XMax <= s.XMin || s.YMax <= s.YMin:
		return fmt.Errorf("render: empty scene bounds [%g,%g]x[%g,%g]", s.XMin, s.XMax, s.YMin, s.YMax)
	case s.CoilPoints < 2:
		return fmt.Errorf("render: coil needs at least 2 points, got %d", s.CoilPoints)
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("render: frame size must be positive, got %dx%d", s.Width, s.Height)
	}
	return nil
}

// Coil returns the spring polyline for displacement d: CoilPoints samples
// evenly spaced from the anchor to d with a sinusoidal offset that always
// completes CoilTurns periods, so the coil compresses as the mass approaches.
func (s Scene) Coil(d float64) plotter.XYs {
	pts := make(plotter.XYs, s.CoilPoints)
	x0 := s.SpringAnchor
	span := d - x0 + 1e-6
	step := (d - x0) / float64(s.CoilPoints-1)
	for i := range pts {
		x := x0 + float64(i)*step
		pts[i].X = x
		pts[i].Y = s.CoilAmplitude * math.Sin(2*math.Pi*s.CoilTurns*(x-x0)/span)
	}
	pts[len(pts)-1].X = d
	return pts
}

// Damper returns the damper rod from the end of the rest spring to d.
func (s Scene) Damper(d float64) plotter.XYs {
	return plotter.XYs{
		{X: s.SpringAnchor + s.SpringLength, Y: 0},
		{X: d, Y: 0},
	}
}

// Mass returns the corners of the mass rectangle at displacement d.
func (s Scene) Mass(d float64) plotter.XYs {
	return plotter.XYs{
		{X: d, Y: s.MassY},
		{X: d + s.MassWidth, Y: s.MassY},
		{X: d + s.MassWidth, Y: s.MassY + s.MassHeight},
		{X: d, Y: s.MassY + s.MassHeight},
	}
}

// Frame builds the plot of the system at displacement d.
func (s Scene) Frame(d float64, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title

	spring, err := plotter.NewLine(s.Coil(d))
	if err != nil {
		return nil, err
	}
	spring.LineStyle.Color = s.SpringColor
	spring.LineStyle.Width = s.SpringWidth

	damper, err := plotter.NewLine(s.Damper(d))
	if err != nil {
		return nil, err
	}
	damper.LineStyle.Color = s.DamperColor
	damper.LineStyle.Width = s.DamperWidth

	mass, err := plotter.NewPolygon(s.Mass(d))
	if err != nil {
		return nil, err
	}
	mass.Color = s.MassColor
	mass.LineStyle.Color = s.MassColor

	p.Add(spring, damper, mass)

	// fixed limits so the camera does not follow the mass
	p.X.Min, p.X.Max = s.XMin, s.XMax
	p.Y.Min, p.Y.Max = s.YMin, s.YMax

	return p, nil
}

// Rasterize draws p onto a Width x Height RGBA image.
func (s Scene) Rasterize(p *plot.Plot) image.Image {
	c := vgimg.NewWith(vgimg.UseImage(image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))))
	p.Draw(draw.New(c))
	return c.Image()
}

// Image renders the scene at displacement d.
func (s Scene) Image(d float64, title string) (image.Image, error) {
	p, err := s.Frame(d, title)
	if err != nil {
		return nil, err
	}
	return s.Rasterize(p), nil
}
