// Package render turns solver output into a tapered strip description.
//
// It plays the render adapter: per step it derives the length scale and
// broken-chain fade, then samples a width for every point. Nothing is cached
// between steps except those two scalars.
package render

import (
	"math"

	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/dynamo"
)

const (
	DefaultWidth      = 0.001
	DefaultMinWidth   = 0.1
	DefaultBaseLength = 0.1
	DefaultFadeRate   = 15.0
)

type Settings struct {
	Width      float64 // global width multiplier handed to the drawer
	MinWidth   float64
	BaseLength float64 // rest distance at which the strip starts thinning
	FadeRate   float64 // per-second decay rate of a broken chain's width
}

func DefaultSettings() Settings {
	return Settings{
		Width:      DefaultWidth,
		MinWidth:   DefaultMinWidth,
		BaseLength: DefaultBaseLength,
		FadeRate:   DefaultFadeRate,
	}
}

// Sample is one key of the width curve; T runs from 0 at the source to 1 at the target.
type Sample struct {
	T     float64 `json:"t"`
	Width float64 `json:"width"`
}

// Frame is what a drawer needs for one step.
type Frame struct {
	Enabled         bool          `json:"enabled"`
	Points          []dynamo.Vec3 `json:"points"`
	Samples         []Sample      `json:"samples"`
	WidthMultiplier float64       `json:"width_multiplier"`
}

// Strip tracks the two width factors that outlive a single step.
type Strip struct {
	Settings
	LengthMultiplier float64
	BrokenMultiplier float64
}

func NewStrip(s Settings) *Strip {
	return &Strip{Settings: s, LengthMultiplier: 1, BrokenMultiplier: 1}
}

// LengthScale is min(1, (base/rest)^3); a non-positive rest distance scales by 1.
func LengthScale(base, rest float64) float64 {
	if rest <= 0 {
		return 1
	}
	return math.Min(1, math.Pow(base/rest, 3))
}

func (s *Strip) CalcLengthMultiplier(rest float64) {
	s.LengthMultiplier = LengthScale(s.BaseLength, rest)
}

// UpdateBrokenMultiplier eases the fade toward zero; called once per disconnected step.
func (s *Strip) UpdateBrokenMultiplier(dt float64) {
	s.BrokenMultiplier = dynamo.Lerp(s.BrokenMultiplier, 0, dynamo.Clamp01(dt*s.FadeRate))
}

func (s *Strip) ResetBroken() { s.BrokenMultiplier = 1 }

// PointWidth is max(MinWidth, mass*jitter) scaled by both multipliers.
func (s *Strip) PointWidth(p chain.Point) float64 {
	w := math.Max(s.MinWidth, p.Mass*p.WidthJitter)
	return w * s.LengthMultiplier * s.BrokenMultiplier
}

// Frame samples the strip for the given points.
func (s *Strip) Frame(points []chain.Point) Frame {
	f := Frame{
		Enabled:         true,
		Points:          make([]dynamo.Vec3, len(points)),
		Samples:         make([]Sample, len(points)),
		WidthMultiplier: s.Width,
	}
	span := float64(len(points) - 1)
	for i, p := range points {
		f.Points[i] = p.Predicted
		t := 0.0
		if span > 0 {
			t = float64(i) / span
		}
		f.Samples[i] = Sample{T: t, Width: s.PointWidth(p)}
	}
	return f
}

// Hidden is the frame of a dead chain.
func Hidden() Frame {
	return Frame{Enabled: false}
}

// WorldWidth returns the drawn width at point i in world units.
func (f Frame) WorldWidth(i int) float64 {
	if i < 0 || i >= len(f.Samples) {
		return 0
	}
	return f.Samples[i].Width * f.WidthMultiplier
}
