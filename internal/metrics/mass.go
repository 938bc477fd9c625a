package metrics

import (
	"math"

	"github.com/san-kum/liquidchain/internal/sim"
)

// TotalMass reports the chain mass at the last observed step.
type TotalMass struct {
	name  string
	value float64
}

func NewTotalMass() *TotalMass {
	return &TotalMass{name: "total_mass"}
}

func (m *TotalMass) Name() string { return m.name }

func (m *TotalMass) Observe(f *sim.Frame) {
	m.value = f.TotalMass
}

func (m *TotalMass) Value() float64 { return m.value }

func (m *TotalMass) Reset() { m.value = 0 }

// MinMass is the lightest point seen while the chain was connected,
// including the step on which it broke.
type MinMass struct {
	name    string
	min     float64
	samples int
}

func NewMinMass() *MinMass {
	return &MinMass{name: "min_mass", min: math.Inf(1)}
}

func (m *MinMass) Name() string { return m.name }

func (m *MinMass) Observe(f *sim.Frame) {
	if !f.Connected && f.Event != sim.EventBroken {
		return
	}
	m.min = math.Min(m.min, f.MinMass)
	m.samples++
}

func (m *MinMass) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinMass) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// ConstraintError averages the relative edge error over connected steps.
type ConstraintError struct {
	name    string
	sum     float64
	samples int
}

func NewConstraintError() *ConstraintError {
	return &ConstraintError{name: "constraint_error"}
}

func (c *ConstraintError) Name() string { return c.name }

func (c *ConstraintError) Observe(f *sim.Frame) {
	if !f.Connected {
		return
	}
	c.sum += f.ConstraintError
	c.samples++
}

func (c *ConstraintError) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ConstraintError) Reset() {
	c.sum = 0
	c.samples = 0
}
