// Package motion scripts anchor trajectories for headless runs.
package motion

import (
	"fmt"
	"math"

	"github.com/san-kum/liquidchain/internal/dynamo"
)

// Motion gives an anchor position at simulation time t.
type Motion interface {
	At(t float64) dynamo.Vec3
}

type Static struct {
	Pos dynamo.Vec3
}

func (s Static) At(float64) dynamo.Vec3 { return s.Pos }

// Linear moves at constant Velocity between Start and Stop; it holds still outside.
// A Stop of zero means no stop.
type Linear struct {
	From        dynamo.Vec3
	Velocity    dynamo.Vec3
	Start, Stop float64
}

func (l Linear) At(t float64) dynamo.Vec3 {
	if l.Stop > 0 && t > l.Stop {
		t = l.Stop
	}
	if t < l.Start {
		t = l.Start
	}
	return l.From.Add(l.Velocity.Scale(t - l.Start))
}

// Oscillate is Center + Amplitude*sin(2*pi*Frequency*t + Phase).
type Oscillate struct {
	Center    dynamo.Vec3
	Amplitude dynamo.Vec3
	Frequency float64
	Phase     float64
}

func (o Oscillate) At(t float64) dynamo.Vec3 {
	return o.Center.Add(o.Amplitude.Scale(math.Sin(2*math.Pi*o.Frequency*t + o.Phase)))
}

// Path interpolates linearly between keyframes. Times must be ascending; the
// position is clamped to the first and last keys.
type Path struct {
	Points []dynamo.Vec3
	Times  []float64
}

func (p Path) At(t float64) dynamo.Vec3 {
	n := len(p.Points)
	if n == 0 {
		return dynamo.Vec3{}
	}
	if t <= p.Times[0] {
		return p.Points[0]
	}
	for i := 1; i < n; i++ {
		if t <= p.Times[i] {
			span := p.Times[i] - p.Times[i-1]
			if span <= 0 {
				return p.Points[i]
			}
			return p.Points[i-1].Lerp(p.Points[i], (t-p.Times[i-1])/span)
		}
	}
	return p.Points[n-1]
}

// Spec is the serializable description of a motion.
type Spec struct {
	Kind      string       `yaml:"kind" json:"kind"`
	From      [3]float64   `yaml:"from" json:"from"`
	Velocity  [3]float64   `yaml:"velocity,omitempty" json:"velocity,omitempty"`
	Start     float64      `yaml:"start,omitempty" json:"start,omitempty"`
	Stop      float64      `yaml:"stop,omitempty" json:"stop,omitempty"`
	Amplitude [3]float64   `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Frequency float64      `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	Phase     float64      `yaml:"phase,omitempty" json:"phase,omitempty"`
	Points    [][3]float64 `yaml:"points,omitempty" json:"points,omitempty"`
	Times     []float64    `yaml:"times,omitempty" json:"times,omitempty"`
}

func vec(a [3]float64) dynamo.Vec3 { return dynamo.V(a[0], a[1], a[2]) }

// FromSpec builds a Motion. An empty kind is static.
func FromSpec(s Spec) (Motion, error) {
	switch s.Kind {
	case "", "static":
		return Static{Pos: vec(s.From)}, nil
	case "linear":
		return Linear{From: vec(s.From), Velocity: vec(s.Velocity), Start: s.Start, Stop: s.Stop}, nil
	case "oscillate":
		return Oscillate{Center: vec(s.From), Amplitude: vec(s.Amplitude), Frequency: s.Frequency, Phase: s.Phase}, nil
	case "path":
		if len(s.Points) == 0 || len(s.Points) != len(s.Times) {
			return nil, fmt.Errorf("path needs matching points and times (%d vs %d): %w",
				len(s.Points), len(s.Times), dynamo.ErrInvalidConfig)
		}
		p := Path{Points: make([]dynamo.Vec3, len(s.Points)), Times: append([]float64(nil), s.Times...)}
		for i, pt := range s.Points {
			p.Points[i] = vec(pt)
			if i > 0 && p.Times[i] < p.Times[i-1] {
				return nil, fmt.Errorf("path times must ascend: %w", dynamo.ErrInvalidConfig)
			}
		}
		return p, nil
	}
	return nil, fmt.Errorf("%q: %w", s.Kind, dynamo.ErrUnknownMotion)
}
