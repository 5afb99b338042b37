package render

import (
	"errors"
	"image/color"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ResponsePlot creates a time plot of the displacement, velocity and applied
// force of traj. The force is drawn as a step line since it is held constant
// over each step.
// It returns error if traj is nil or holds only the initial state.
func ResponsePlot(traj *dynamo.Trajectory, title string) (*plot.Plot, error) {
	if traj == nil || traj.Len() < 2 {
		return nil, errors.New("render: trajectory too short to plot")
	}

	p := plot.New()

	p.Title.Text = title
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	disp, err := plotter.NewLine(series(traj, traj.Displacements()))
	if err != nil {
		return nil, err
	}
	disp.LineStyle.Color = color.RGBA{B: 255, A: 255}
	disp.LineStyle.Width = vg.Points(1.5)
	p.Add(disp)
	p.Legend.Add("displacement", disp)

	vel, err := plotter.NewLine(series(traj, traj.Velocities()))
	if err != nil {
		return nil, err
	}
	vel.LineStyle.Color = color.RGBA{R: 255, G: 128, A: 255}
	vel.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(vel)
	p.Legend.Add("velocity", vel)

	// forces[i-1] acts over (t[i-1], t[i]]
	forces := traj.Forces()
	fpts := make(plotter.XYs, len(forces))
	for i, u := range forces {
		fpts[i].X = traj.Time(i + 1)
		fpts[i].Y = u
	}
	force, err := plotter.NewLine(fpts)
	if err != nil {
		return nil, err
	}
	force.StepStyle = plotter.PreStep
	force.LineStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	p.Add(force)
	p.Legend.Add("force", force)

	return p, nil
}

// SaveResponse writes ResponsePlot to path. The format follows the file
// extension (png, svg, pdf...).
func SaveResponse(path string, traj *dynamo.Trajectory, title string, w, h vg.Length) error {
	p, err := ResponsePlot(traj, title)
	if err != nil {
		return err
	}
	return p.Save(w, h, path)
}

func series(traj *dynamo.Trajectory, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i].X = traj.Time(i)
		pts[i].Y = y
	}
	return pts
}
