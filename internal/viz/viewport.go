package viz

import (
	"math"

	"github.com/san-kum/liquidchain/internal/dynamo"
)

// Viewport maps world XY onto canvas dots with a uniform scale; Y points up.
type Viewport struct {
	CenterX, CenterY float64
	Scale            float64 // dots per world unit
	W, H             int
}

// FitViewport frames the given points with a margin so the chain can sag
// below them.
func FitViewport(points []dynamo.Vec3, w, h int) Viewport {
	v := Viewport{W: w, H: h, Scale: 1}
	if len(points) == 0 {
		return v
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span < 0.05 {
		span = 0.05
	}
	span *= 2
	v.CenterX = (minX + maxX) / 2
	v.CenterY = (minY + maxY) / 2
	v.Scale = math.Min(float64(w), float64(h)) / span
	return v
}

func (v Viewport) Project(p dynamo.Vec3) (int, int) {
	x := float64(v.W)/2 + (p.X-v.CenterX)*v.Scale
	y := float64(v.H)/2 - (p.Y-v.CenterY)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}
