package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/msdsim/internal/analysis"
	"github.com/san-kum/msdsim/internal/dynamo"
)

// PathSVG draws points as a single polyline scaled to fill a width x height
// SVG document with 10% padding.
func PathSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

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

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// DisplacementSVG is PathSVG of displacement against time.
func DisplacementSVG(traj *dynamo.Trajectory, width, height int, strokeColor string) string {
	pts := make([]analysis.Point, traj.Len())
	for i := range pts {
		pts[i] = analysis.Point{X: traj.Time(i), Y: traj.Displacement(i)}
	}
	return PathSVG(pts, width, height, strokeColor)
}

// PhaseSVG is PathSVG of the phase portrait of traj.
func PhaseSVG(traj *dynamo.Trajectory, width, height int, strokeColor string) string {
	return PathSVG(analysis.NewPhasePortrait(traj).Points, width, height, strokeColor)
}
