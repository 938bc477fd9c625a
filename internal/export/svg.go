package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/render"
)

const background = "#0a0a0a"

// bounds maps world XY into a padded pixel viewport. Z is dropped.
type bounds struct {
	minX, minY     float64
	rangeX, rangeY float64
	width, height  int
}

func fit(points []dynamo.Vec3, width, height int) bounds {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// keep the aspect ratio so sag is not exaggerated
	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	span *= 1.2

	return bounds{
		minX: cx - span/2, minY: cy - span/2,
		rangeX: span, rangeY: span,
		width: width, height: height,
	}
}

func (b bounds) project(p dynamo.Vec3) (float64, float64) {
	x := (p.X - b.minX) / b.rangeX * float64(b.width)
	y := float64(b.height) - (p.Y-b.minY)/b.rangeY*float64(b.height)
	return x, y
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// FrameToSVG draws a chain frame as tapered segments, each stroked with the
// mean sample width of its two points times thickness pixels. A hidden
// frame yields an empty canvas.
func FrameToSVG(f render.Frame, width, height int, color string, thickness float64) string {
	var sb strings.Builder
	header(&sb, width, height)

	if f.Enabled && len(f.Points) >= 2 {
		b := fit(f.Points, width, height)

		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-linecap="round" fill="none">
`, color))
		for i := 0; i < len(f.Points)-1; i++ {
			x0, y0 := b.project(f.Points[i])
			x1, y1 := b.project(f.Points[i+1])
			w := (f.Samples[i].Width + f.Samples[i+1].Width) / 2 * thickness
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-width="%.2f"/>
`, x0, y0, x1, y1, max(w, 0.5)))
		}
		sb.WriteString("</g>\n")

		for _, p := range []dynamo.Vec3{f.Points[0], f.Points[len(f.Points)-1]} {
			x, y := b.project(p)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"/>
`, x, y))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrailToSVG draws the path a single point followed over a run.
func TrailToSVG(points []dynamo.Vec3, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	b := fit(points, width, height)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x, y := b.project(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
