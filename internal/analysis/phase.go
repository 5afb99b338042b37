package analysis

import (
	"strings"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Point is one sample of a phase portrait.
type Point struct{ X, Y float64 }

// PhasePortrait holds displacement (X) against velocity (Y).
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait extracts the phase plane trajectory of traj.
func NewPhasePortrait(traj *dynamo.Trajectory) *PhasePortrait {
	portrait := &PhasePortrait{Points: make([]Point, traj.Len())}
	for i := range portrait.Points {
		portrait.Points[i] = Point{X: traj.Displacement(i), Y: traj.Velocity(i)}
	}
	return portrait
}

// ASCII renders the portrait on a width x height character grid.
func (portrait *PhasePortrait) ASCII(width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	// pad by 10% so the curve does not touch the border
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which the displacement rises
// through level, starting the search at step from.
func Crossings(traj *dynamo.Trajectory, level float64, from int) []float64 {
	var out []float64
	if from < 0 {
		from = 0
	}
	for i := from + 1; i < traj.Len(); i++ {
		prev, curr := traj.Displacement(i-1), traj.Displacement(i)
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			out = append(out, traj.Time(i-1)+frac*traj.Dt())
		}
	}
	return out
}

// Period estimates the oscillation period in seconds from the mean spacing
// of upward crossings of level after step from. It returns 0 when fewer
// than two crossings exist.
func Period(traj *dynamo.Trajectory, level float64, from int) float64 {
	ts := Crossings(traj, level, from)
	if len(ts) < 2 {
		return 0
	}
	return (ts[len(ts)-1] - ts[0]) / float64(len(ts)-1)
}
