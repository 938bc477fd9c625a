package chain

import (
	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/dynamo"
)

// Point is one liquid mass of the chain.
type Point struct {
	Position    dynamo.Vec3 // end of the previous step
	Predicted   dynamo.Vec3 // solved this step
	Velocity    dynamo.Vec3
	Mass        float64
	Anchor      anchor.ID // set only on the two ends
	WidthJitter float64
}

func (p *Point) pin(id anchor.ID, pos dynamo.Vec3, mass float64) {
	p.Anchor = id
	p.Position = pos
	p.Predicted = pos
	p.Velocity = dynamo.Vec3{}
	p.Mass = mass
}

func (p *Point) place(pos dynamo.Vec3, mass, jitter float64) {
	p.Anchor = anchor.None
	p.Position = pos
	p.Predicted = pos
	p.Velocity = dynamo.Vec3{}
	p.Mass = mass
	p.WidthJitter = jitter
}

// Pinned reports whether the point is bound to an anchor.
func (p *Point) Pinned() bool { return p.Anchor != anchor.None }
