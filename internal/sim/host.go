package sim

import (
	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/render"
)

// Host drives one chain at a fixed step: it owns the connection check that
// precedes the solver pipeline and hands the result to the strip.
type Host struct {
	Solver        *chain.Solver
	Strip         *render.Strip
	Finder        anchor.Finder
	Source        anchor.ID
	Target        anchor.ID
	TouchDistance float64

	anchors anchor.Resolver
	steps   int
	time    float64
}

func NewHost(s *chain.Solver, strip *render.Strip, anchors anchor.Resolver, finder anchor.Finder, source anchor.ID, touch float64) *Host {
	return &Host{
		Solver:        s,
		Strip:         strip,
		Finder:        finder,
		Source:        source,
		TouchDistance: touch,
		anchors:       anchors,
	}
}

// Connect (re)builds the chain from the source to target.
func (h *Host) Connect(target anchor.ID) error {
	if err := h.Solver.Connect(h.Source, target); err != nil {
		return err
	}
	h.Target = target
	h.Strip.ResetBroken()
	return nil
}

func (h *Host) Steps() int               { return h.steps }
func (h *Host) Time() float64            { return h.time }
func (h *Host) Anchors() anchor.Resolver { return h.anchors }

// Step advances the chain by dt. A dead chain only searches for a target
// and skips the pipeline for that step, even when it reconnects.
func (h *Host) Step(dt float64) Frame {
	s := h.Solver
	ev := EventNone

	if s.Connected() {
		if a, b, ok := s.Ends(); ok {
			s.CalcRestDistance(a, b)
			h.Strip.CalcLengthMultiplier(s.RestDistance)
			if a.Sub(b).LenSq() < h.TouchDistance*h.TouchDistance {
				if h.Connect(h.Target) == nil {
					ev = EventRetouched
				}
			}
		}
	} else {
		s.State.Decay()
		h.Strip.UpdateBrokenMultiplier(dt)

		if s.Dead() {
			if int(s.State) == -s.Lifetime {
				ev = EventDied
			}
			if pos, ok := h.anchors.Position(h.Source); ok && h.Finder != nil {
				if id, found := h.Finder.FindTarget(pos, h.TouchDistance, h.Source); found {
					if h.Connect(id) == nil {
						ev = EventConnected
					}
				}
			}
			return h.finish(dt, ev, render.Hidden())
		}
	}

	if s.Step(dt, h.Strip.LengthMultiplier) {
		ev = EventBroken
	}
	return h.finish(dt, ev, h.Strip.Frame(s.Points))
}

func (h *Host) finish(dt float64, ev Event, rf render.Frame) Frame {
	h.steps++
	h.time += dt

	s := h.Solver
	f := Frame{
		Step:         h.steps,
		Time:         h.time,
		Counter:      int(s.State),
		Connected:    s.Connected(),
		Dead:         s.Dead(),
		Event:        ev,
		RestDistance: s.RestDistance,
		LengthScale:  h.Strip.LengthMultiplier,
		Fade:         h.Strip.BrokenMultiplier,
		TotalMass:    s.TotalMass(),
		MinMass:      s.MinMass(),
		Masses:       make([]float64, len(s.Points)),
		Render:       rf,
	}
	if f.Connected {
		f.ConstraintError = s.ConstraintError()
	}
	for i := range s.Points {
		f.Masses[i] = s.Points[i].Mass
	}
	return f
}
