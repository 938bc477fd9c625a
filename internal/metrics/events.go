package metrics

import "github.com/san-kum/liquidchain/internal/sim"

// EventCount counts steps that raised one event kind.
type EventCount struct {
	name  string
	event sim.Event
	count int
}

func NewBreaks() *EventCount     { return &EventCount{name: "breaks", event: sim.EventBroken} }
func NewReconnects() *EventCount { return &EventCount{name: "reconnects", event: sim.EventConnected} }
func NewRetouches() *EventCount  { return &EventCount{name: "retouches", event: sim.EventRetouched} }

func (e *EventCount) Name() string { return e.name }

func (e *EventCount) Observe(f *sim.Frame) {
	if f.Event == e.event {
		e.count++
	}
}

func (e *EventCount) Value() float64 { return float64(e.count) }

func (e *EventCount) Reset() { e.count = 0 }

// ConnectedRatio is the share of steps that ended connected.
type ConnectedRatio struct {
	name      string
	connected int
	samples   int
}

func NewConnectedRatio() *ConnectedRatio {
	return &ConnectedRatio{name: "connected_ratio"}
}

func (c *ConnectedRatio) Name() string { return c.name }

func (c *ConnectedRatio) Observe(f *sim.Frame) {
	c.samples++
	if f.Connected {
		c.connected++
	}
}

func (c *ConnectedRatio) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.connected) / float64(c.samples)
}

func (c *ConnectedRatio) Reset() {
	c.connected = 0
	c.samples = 0
}

// Standard returns a fresh set of every chain metric.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewTotalMass(),
		NewMinMass(),
		NewConstraintError(),
		NewBreaks(),
		NewReconnects(),
		NewRetouches(),
		NewConnectedRatio(),
	}
}

// Attach adds the standard metrics to r.
func Attach(r *sim.Runner) {
	for _, m := range Standard() {
		r.AddMetric(m)
	}
}

// Names lists the metrics Standard produces.
func Names() []string {
	ms := Standard()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}
