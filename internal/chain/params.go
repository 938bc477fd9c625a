package chain

import (
	"fmt"
	"sort"

	"github.com/san-kum/liquidchain/internal/dynamo"
)

const (
	DefaultIterations        = 3
	DefaultFreePoints        = 15
	DefaultBreakThreshold    = 0.01
	DefaultStraightRange     = 0.03
	DefaultGravityMultiplier = 1.0
	DefaultLiquidQuantity    = 5.0
	DefaultLifetime          = 60
	DefaultFlowRate          = 100.0
	DefaultPinnedMass        = 10000.0

	// InteriorMassRatio is the share of LiquidQuantity given to free points on connect.
	InteriorMassRatio = 0.1

	// jitter range for free point widths, [min, min+span)
	jitterMin  = 0.3
	jitterSpan = 0.7

	// floor for inverse mass so drained points stay finite
	minSolveMass = 1e-6
)

// Params configures a Solver.
type Params struct {
	Iterations        int     // constraint relaxation passes per step
	FreePoints        int     // interior points; the chain holds FreePoints+2
	BreakThreshold    float64 // mass*lengthScale below this breaks the chain
	StraightRange     float64 // anchor distance under which the chain is pulled straight
	GravityMultiplier float64
	LiquidQuantity    float64 // mass of each end point on connect
	Lifetime          int     // frames a broken chain decays before it is dead
	FlowRate          float64 // mass flow speed per unit of pair velocity
	PinnedMass        float64 // constraint mass used for the two end points
	ClampMass         bool    // floor point mass at zero after each flow update
}

func DefaultParams() Params {
	return Params{
		Iterations:        DefaultIterations,
		FreePoints:        DefaultFreePoints,
		BreakThreshold:    DefaultBreakThreshold,
		StraightRange:     DefaultStraightRange,
		GravityMultiplier: DefaultGravityMultiplier,
		LiquidQuantity:    DefaultLiquidQuantity,
		Lifetime:          DefaultLifetime,
		FlowRate:          DefaultFlowRate,
		PinnedMass:        DefaultPinnedMass,
		ClampMass:         true,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Iterations < 1:
		return fmt.Errorf("iterations must be >= 1, got %d: %w", p.Iterations, dynamo.ErrInvalidParams)
	case p.FreePoints < 0:
		return fmt.Errorf("free points must be >= 0, got %d: %w", p.FreePoints, dynamo.ErrInvalidParams)
	case p.Lifetime < 1:
		return fmt.Errorf("lifetime must be >= 1, got %d: %w", p.Lifetime, dynamo.ErrInvalidParams)
	case p.LiquidQuantity <= 0:
		return fmt.Errorf("liquid quantity must be positive, got %f: %w", p.LiquidQuantity, dynamo.ErrInvalidParams)
	case p.PinnedMass <= 0:
		return fmt.Errorf("pinned mass must be positive, got %f: %w", p.PinnedMass, dynamo.ErrInvalidParams)
	case p.FlowRate < 0:
		return fmt.Errorf("flow rate must be >= 0, got %f: %w", p.FlowRate, dynamo.ErrInvalidParams)
	case p.StraightRange < 0:
		return fmt.Errorf("straight range must be >= 0, got %f: %w", p.StraightRange, dynamo.ErrInvalidParams)
	}
	return nil
}

// GetParams exposes the tunable parameters by name.
func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"break_threshold":    p.BreakThreshold,
		"straight_range":     p.StraightRange,
		"gravity_multiplier": p.GravityMultiplier,
		"liquid_quantity":    p.LiquidQuantity,
		"flow_rate":          p.FlowRate,
		"iterations":         float64(p.Iterations),
	}
}

// SetParam updates one tunable parameter. Structural parameters (free
// points, lifetime) are fixed for the life of a solver and are rejected.
func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "break_threshold":
		p.BreakThreshold = value
	case "straight_range":
		p.StraightRange = value
	case "gravity_multiplier":
		p.GravityMultiplier = value
	case "liquid_quantity":
		p.LiquidQuantity = value
	case "flow_rate":
		p.FlowRate = value
	case "iterations":
		if value < 1 {
			return fmt.Errorf("iterations must be >= 1: %w", dynamo.ErrInvalidParams)
		}
		p.Iterations = int(value)
	default:
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidParams)
	}
	return nil
}

// ParamNames lists the tunable parameters in a stable order.
func ParamNames() []string {
	var p Params
	names := make([]string, 0, 6)
	for k := range p.GetParams() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
