package sim

import (
	"math"

	"github.com/san-kum/liquidchain/internal/render"
)

// Event marks a connection change that happened during a step.
type Event int

const (
	EventNone      Event = iota
	EventConnected       // a dead chain found a target
	EventRetouched       // anchors touched and the chain was rebuilt
	EventBroken          // the break test fired
	EventDied            // the broken chain reached the end of its lifetime
)

func (e Event) String() string {
	switch e {
	case EventConnected:
		return "connected"
	case EventRetouched:
		return "retouched"
	case EventBroken:
		return "broken"
	case EventDied:
		return "died"
	}
	return ""
}

// ParseEvent is the inverse of Event.String; unknown labels map to EventNone.
func ParseEvent(s string) Event {
	for _, e := range []Event{EventConnected, EventRetouched, EventBroken, EventDied} {
		if e.String() == s {
			return e
		}
	}
	return EventNone
}

// Frame is the observable outcome of one host step.
type Frame struct {
	Step            int          `json:"step"`
	Time            float64      `json:"time"`
	Counter         int          `json:"counter"`
	Connected       bool         `json:"connected"`
	Dead            bool         `json:"dead"`
	Event           Event        `json:"event"`
	RestDistance    float64      `json:"rest_distance"`
	LengthScale     float64      `json:"length_scale"`
	Fade            float64      `json:"fade"`
	TotalMass       float64      `json:"total_mass"`
	MinMass         float64      `json:"min_mass"`
	ConstraintError float64      `json:"constraint_error"`
	Masses          []float64    `json:"masses"`
	Render          render.Frame `json:"render"`
}

// IsValid reports whether every position and mass is finite.
func (f *Frame) IsValid() bool {
	for _, p := range f.Render.Points {
		if !p.IsValid() {
			return false
		}
	}
	for _, m := range f.Masses {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

type Config struct {
	Dt       float64
	Duration float64
	Record   bool // keep every frame in Result.Frames
}

type Result struct {
	Frames     []Frame
	Final      Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
