package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/springnet/internal/dynamo"
	"github.com/san-kum/springnet/internal/viz"
)

// TensionRGB is the stroke colour of a spring with the given tension in
// [0, 1]: green at rest, red at or beyond the saturation stretch.
func TensionRGB(t float64) string {
	t = math.Max(0, math.Min(t, 1))
	r := int(t * 255)
	return fmt.Sprintf("rgb(%d,%d,0)", r, 255-r)
}

// GraphToSVG draws the graph at its world coordinates. Springs are coloured by
// tension, vertices are circles of radius equal to their mass and pinned
// vertices are outlined.
func GraphToSVG(g *dynamo.Graph) string {
	width, height := g.Width, g.Height

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g stroke-width="1.5">
`, width, height, width, height))

	vertices := g.Vertices()
	for _, e := range g.Edges() {
		a, b := &vertices[e.Start], &vertices[e.End]
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, a.X, a.Y, b.X, b.Y, TensionRGB(e.Tension(a, b))))
	}
	sb.WriteString("</g>\n<g fill=\"#ffffff\">\n")

	for _, v := range vertices {
		if v.Pinned {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#ff8800" stroke="#ffffff"/>
`, v.X, v.Y, v.Mass))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, v.X, v.Y, v.Mass))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG, colouring each dot by the
// tension recorded for its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fill := TensionRGB(canvas.Tension[y/4][x/2])
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// EnergyToSVG plots potential and kinetic energy histories on shared axes.
func EnergyToSVG(potential, kinetic []float64, width, height int) string {
	n := max(len(potential), len(kinetic))
	if n < 2 {
		return ""
	}

	maxY := 0.0
	for _, s := range [][]float64{potential, kinetic} {
		for _, v := range s {
			maxY = math.Max(maxY, v)
		}
	}
	if maxY == 0 {
		maxY = 1
	}
	maxY *= 1.1

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	path := func(series []float64, stroke string) {
		if len(series) < 2 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke))
		for i, v := range series {
			x := float64(i) / float64(n-1) * float64(width)
			y := float64(height) - v/maxY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}
	path(potential, "#ff4444")
	path(kinetic, "#00ff88")

	sb.WriteString("</svg>")
	return sb.String()
}
