package stream

import (
	"context"
	"log"
	"time"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/sim"
)

// FrameMessage is the wire form of one step.
type FrameMessage struct {
	Step            int          `json:"step"`
	Time            float64      `json:"time"`
	Counter         int          `json:"counter"`
	Connected       bool         `json:"connected"`
	Dead            bool         `json:"dead"`
	Event           string       `json:"event,omitempty"`
	TotalMass       float64      `json:"total_mass"`
	Visible         bool         `json:"visible"`
	Points          [][3]float64 `json:"points,omitempty"`
	Widths          []float64    `json:"widths,omitempty"`
	WidthMultiplier float64      `json:"width_multiplier"`
	Anchors         [][3]float64 `json:"anchors"`
}

// Driver owns a runner and is the only goroutine that touches it.
type Driver struct {
	hub    *Hub
	build  func() (*sim.Runner, error)
	runner *sim.Runner
	dt     float64
	paused bool
}

func NewDriver(hub *Hub, build func() (*sim.Runner, error), dt float64) (*Driver, error) {
	r, err := build()
	if err != nil {
		return nil, err
	}
	return &Driver{hub: hub, build: build, runner: r, dt: dt}, nil
}

func (d *Driver) Runner() *sim.Runner { return d.runner }

// Step applies queued commands, advances one step unless paused and
// broadcasts the frame. It reports whether a step ran.
func (d *Driver) Step() (sim.Frame, bool) {
	d.drain()
	if d.paused {
		return sim.Frame{}, false
	}
	f := d.runner.Advance(d.dt)
	d.hub.Broadcast("frame", d.message(&f))
	return f, true
}

func (d *Driver) drain() {
	for {
		select {
		case cmd := <-d.hub.Commands():
			d.apply(cmd)
		default:
			return
		}
	}
}

func (d *Driver) apply(cmd Command) {
	switch cmd.Type {
	case "pause":
		d.paused = true
	case "resume":
		d.paused = false
	case "reset":
		r, err := d.build()
		if err != nil {
			log.Printf("[stream] reset failed: %v", err)
			return
		}
		d.runner = r
	case "move":
		id := d.runner.Host().Target
		if id == anchor.None {
			return
		}
		reg := d.runner.Registry()
		pos, ok := reg.Position(id)
		if !ok {
			return
		}
		d.runner.Release(id)
		pos.X += cmd.DX
		pos.Y += cmd.DY
		pos.Z += cmd.DZ
		_ = reg.Move(id, pos)
	default:
		log.Printf("[stream] unknown command %q", cmd.Type)
	}
}

func (d *Driver) message(f *sim.Frame) FrameMessage {
	msg := FrameMessage{
		Step:            f.Step,
		Time:            f.Time,
		Counter:         f.Counter,
		Connected:       f.Connected,
		Dead:            f.Dead,
		Event:           f.Event.String(),
		TotalMass:       f.TotalMass,
		Visible:         f.Render.Enabled,
		WidthMultiplier: f.Render.WidthMultiplier,
	}
	if f.Render.Enabled {
		msg.Points = make([][3]float64, len(f.Render.Points))
		msg.Widths = make([]float64, len(f.Render.Samples))
		for i, p := range f.Render.Points {
			msg.Points[i] = [3]float64{p.X, p.Y, p.Z}
		}
		for i, s := range f.Render.Samples {
			msg.Widths[i] = s.Width
		}
	}
	reg := d.runner.Registry()
	for _, id := range reg.IDs() {
		if p, ok := reg.Position(id); ok {
			msg.Anchors = append(msg.Anchors, [3]float64{p.X, p.Y, p.Z})
		}
	}
	return msg
}

// Run steps in real time until ctx ends.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(d.dt * float64(time.Second)))
	defer ticker.Stop()

	log.Printf("[stream] driver running at dt=%.4fs", d.dt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Step()
		}
	}
}
