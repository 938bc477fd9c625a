package chain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/dynamo"
)

// Solver owns one chain and advances it a fixed step at a time.
type Solver struct {
	Params

	Points        []Point
	RestDistance  float64 // kept while disconnected
	TotalDistance float64
	State         ConnectState

	anchors anchor.Resolver
	rng     *rand.Rand
}

// New allocates a dead chain of p.FreePoints+2 points. A nil rng is replaced
// by a generator seeded with 1 so runs stay reproducible.
func New(p Params, anchors anchor.Resolver, rng *rand.Rand) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if anchors == nil {
		return nil, fmt.Errorf("nil anchor resolver: %w", dynamo.ErrInvalidParams)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Solver{Params: p, anchors: anchors, rng: rng}
	s.Init()
	return s, nil
}

// Init reallocates the points in their zero state and marks the chain dead.
func (s *Solver) Init() {
	s.Points = make([]Point, s.FreePoints+2)
	s.State.Kill(s.Lifetime)
}

func (s *Solver) Len() int { return len(s.Points) }

func (s *Solver) Connected() bool { return s.State.Connected() }
func (s *Solver) Dead() bool      { return s.State.Dead(s.Lifetime) }

// Connect pins the chain between a and b and lays the free points out evenly
// on the segment between them.
func (s *Solver) Connect(a, b anchor.ID) error {
	posA, ok := s.anchors.Position(a)
	if !ok {
		return fmt.Errorf("connect source %d: %w", a, dynamo.ErrUnknownAnchor)
	}
	posB, ok := s.anchors.Position(b)
	if !ok {
		return fmt.Errorf("connect target %d: %w", b, dynamo.ErrUnknownAnchor)
	}

	last := len(s.Points) - 1
	s.Points[0].pin(a, posA, s.LiquidQuantity)
	s.Points[last].pin(b, posB, s.LiquidQuantity)

	s.CalcRestDistance(posA, posB)
	dir := posB.Sub(posA).Normalize()
	for i := 1; i < last; i++ {
		pos := posA.Add(dir.Scale(s.RestDistance * float64(i)))
		s.Points[i].place(pos, s.LiquidQuantity*InteriorMassRatio, s.jitter())
	}

	s.State.Arm()
	return nil
}

func (s *Solver) jitter() float64 {
	return jitterMin + jitterSpan*s.rng.Float64()
}

// Ends resolves both end anchors. ok is false if either no longer exists.
func (s *Solver) Ends() (a, b dynamo.Vec3, ok bool) {
	first, last := &s.Points[0], &s.Points[len(s.Points)-1]
	if !first.Pinned() || !last.Pinned() {
		return a, b, false
	}
	a, okA := s.anchors.Position(first.Anchor)
	b, okB := s.anchors.Position(last.Anchor)
	return a, b, okA && okB
}

// CalcRestDistance spreads the anchor separation evenly over the segments.
func (s *Solver) CalcRestDistance(a, b dynamo.Vec3) {
	s.TotalDistance = a.Dist(b)
	s.RestDistance = s.TotalDistance / float64(len(s.Points)-1)
}

// Predict integrates gravity with semi-implicit Euler. Runs whether or not
// the chain is connected so a broken chain falls.
func (s *Solver) Predict(dt float64) {
	g := dynamo.Gravity.Scale(s.GravityMultiplier * dt)
	for i := range s.Points {
		p := &s.Points[i]
		p.Position = p.Predicted
		p.Velocity = p.Velocity.Add(g)
		p.Predicted = p.Predicted.Add(p.Velocity.Scale(dt))
	}
}

// Straightness is clamp01(StraightRange/length)^3, 1 for coincident anchors.
func (s *Solver) Straightness(length float64) float64 {
	if length <= 0 {
		return 1
	}
	return math.Pow(dynamo.Clamp01(s.StraightRange/length), 3)
}

// MakeStraight pulls the free points toward the anchor segment when the
// anchors are close together.
func (s *Solver) MakeStraight(a, b dynamo.Vec3) {
	if !s.Connected() {
		return
	}
	dir := b.Sub(a)
	k := s.Straightness(dir.Len())
	last := len(s.Points) - 1
	for i := 1; i < last; i++ {
		alpha := float64(i) / float64(last)
		linear := a.Add(dir.Scale(alpha))
		s.Points[i].Predicted = s.Points[i].Predicted.Lerp(linear, k)
	}
}

// DistanceConstraint relaxes every edge toward RestDistance, Iterations times.
// Ends use PinnedMass; heavier points move less. Zero-length edges are skipped.
func (s *Solver) DistanceConstraint() {
	last := len(s.Points) - 1
	for it := 0; it < s.Iterations; it++ {
		for i := 0; i < last; i++ {
			p0, p1 := &s.Points[i], &s.Points[i+1]

			m0, m1 := p0.Mass, p1.Mass
			if i == 0 {
				m0 = s.PinnedMass
			}
			if i+1 == last {
				m1 = s.PinnedMass
			}
			w0 := 1 / math.Max(m0, minSolveMass)
			w1 := 1 / math.Max(m1, minSolveMass)
			a0 := w0 / (w0 + w1)
			a1 := w1 / (w0 + w1)

			n := p1.Predicted.Sub(p0.Predicted)
			d := n.Len()
			if d == 0 {
				continue
			}
			correction := n.Scale((d - s.RestDistance) / d)
			p0.Predicted = p0.Predicted.Add(correction.Scale(a0))
			p1.Predicted = p1.Predicted.Sub(correction.Scale(a1))
		}
	}
}

// FlowFactor maps the vertical slope of p0->p1 from [-1,1] to [0,1].
// A segment with no length has no slope and yields 0.5.
func FlowFactor(p0, p1 dynamo.Vec3) float64 {
	return (p1.Sub(p0).Normalize().Y + 1) * 0.5
}

// MoveLiquid redistributes mass pair by pair in index order. Each pair reads
// the masses already moved by the previous pair and keeps its own total.
func (s *Solver) MoveLiquid(dt float64) {
	if !s.Connected() {
		return
	}
	for i := 0; i < len(s.Points)-1; i++ {
		p0, p1 := &s.Points[i], &s.Points[i+1]

		a0 := FlowFactor(p0.Predicted, p1.Predicted)
		a1 := 1 - a0
		total := p0.Mass + p1.Mass
		speed := p0.Velocity.Add(p1.Velocity).Len() * s.FlowRate
		t := dynamo.Clamp01(dt * speed)

		p0.Mass = dynamo.Lerp(p0.Mass, total*a0, t)
		p1.Mass = dynamo.Lerp(p1.Mass, total*a1, t)
		if s.ClampMass {
			p0.Mass = math.Max(p0.Mass, 0)
			p1.Mass = math.Max(p1.Mass, 0)
		}
	}
}

// CheckBreak disconnects the chain if any point's scaled mass is under
// BreakThreshold. It reports whether the chain broke.
func (s *Solver) CheckBreak(lengthScale float64) bool {
	if !s.Connected() {
		return false
	}
	for i := range s.Points {
		if s.Points[i].Mass*lengthScale < s.BreakThreshold {
			s.State.Break()
			return true
		}
	}
	return false
}

// UpdateVelocity pins connected ends to their anchors and derives velocity
// from the step displacement. An end whose anchor is gone is left free.
func (s *Solver) UpdateVelocity(dt float64) {
	connected := s.Connected()
	for i := range s.Points {
		p := &s.Points[i]
		if connected && p.Pinned() {
			if pos, ok := s.anchors.Position(p.Anchor); ok {
				p.Predicted = pos
			}
		}
		p.Velocity = p.Predicted.Sub(p.Position).Scale(1 / dt)
	}
}

// Step runs the integration pipeline for one fixed step. The connection
// check and rest distance update belong to the caller and must run first.
// It reports whether the chain broke during this step.
func (s *Solver) Step(dt, lengthScale float64) bool {
	s.Predict(dt)
	if a, b, ok := s.Ends(); ok {
		s.MakeStraight(a, b)
	}
	s.DistanceConstraint()
	s.MoveLiquid(dt)
	broke := s.CheckBreak(lengthScale)
	s.UpdateVelocity(dt)
	return broke
}

func (s *Solver) TotalMass() float64 {
	var m float64
	for i := range s.Points {
		m += s.Points[i].Mass
	}
	return m
}

// MinMass returns the smallest point mass.
func (s *Solver) MinMass() float64 {
	m := math.Inf(1)
	for i := range s.Points {
		m = math.Min(m, s.Points[i].Mass)
	}
	return m
}

// ConstraintError is the mean relative deviation of segment length from RestDistance.
func (s *Solver) ConstraintError() float64 {
	if s.RestDistance == 0 || len(s.Points) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < len(s.Points)-1; i++ {
		d := s.Points[i].Predicted.Dist(s.Points[i+1].Predicted)
		sum += math.Abs(d-s.RestDistance) / s.RestDistance
	}
	return sum / float64(len(s.Points)-1)
}

// Positions returns a copy of the predicted positions.
func (s *Solver) Positions() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, len(s.Points))
	for i := range s.Points {
		out[i] = s.Points[i].Predicted
	}
	return out
}
