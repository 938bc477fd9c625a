package chain

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/dynamo"
)

const testDt = 1.0 / 60.0

func newTestChain(t *testing.T, freePoints int, a, b dynamo.Vec3) (*Solver, *anchor.Registry, anchor.ID, anchor.ID) {
	t.Helper()
	reg := anchor.NewRegistry()
	idA := reg.Add("a", a)
	idB := reg.Add("b", b)

	p := DefaultParams()
	p.FreePoints = freePoints
	s, err := New(p, reg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new solver: %v", err)
	}
	if err := s.Connect(idA, idB); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return s, reg, idA, idB
}

func TestNewStartsDead(t *testing.T) {
	p := DefaultParams()
	s, err := New(p, anchor.NewRegistry(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Len() != p.FreePoints+2 {
		t.Errorf("expected %d points, got %d", p.FreePoints+2, s.Len())
	}
	if int(s.State) != -p.Lifetime {
		t.Errorf("expected counter %d, got %d", -p.Lifetime, s.State)
	}
	if !s.Dead() || s.Connected() {
		t.Error("new chain should be dead and not connected")
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero iterations", func(p *Params) { p.Iterations = 0 }},
		{"negative points", func(p *Params) { p.FreePoints = -1 }},
		{"zero lifetime", func(p *Params) { p.Lifetime = 0 }},
		{"no liquid", func(p *Params) { p.LiquidQuantity = 0 }},
		{"no pinned mass", func(p *Params) { p.PinnedMass = 0 }},
		{"negative flow", func(p *Params) { p.FlowRate = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if _, err := New(p, anchor.NewRegistry(), nil); !errors.Is(err, dynamo.ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestConnectEvenSpacing(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))

	if s.Len() != 7 {
		t.Fatalf("expected 7 points, got %d", s.Len())
	}
	if math.Abs(s.RestDistance-1.0/6.0) > 1e-12 {
		t.Errorf("rest distance = %v, want 1/6", s.RestDistance)
	}
	for i, p := range s.Points {
		want := dynamo.V(float64(i)/6.0, 0, 0)
		if p.Predicted.Dist(want) > 1e-12 || p.Position != p.Predicted {
			t.Errorf("point %d at %v, want %v", i, p.Predicted, want)
		}
		if p.Velocity != (dynamo.Vec3{}) {
			t.Errorf("point %d velocity %v, want zero", i, p.Velocity)
		}
	}
	for i := 1; i < 6; i++ {
		if s.Points[i].Mass != s.LiquidQuantity*0.1 {
			t.Errorf("interior mass %d = %v, want %v", i, s.Points[i].Mass, s.LiquidQuantity*0.1)
		}
		if s.Points[i].Pinned() {
			t.Errorf("interior point %d should not be pinned", i)
		}
	}
	if s.Points[0].Mass != s.LiquidQuantity || s.Points[6].Mass != s.LiquidQuantity {
		t.Error("end points should carry the full liquid quantity")
	}
	if !s.Connected() {
		t.Error("expected connected after Connect")
	}
}

func TestConnectResetsMassAndJitter(t *testing.T) {
	s, _, a, b := newTestChain(t, 8, dynamo.V(0, 0, 0), dynamo.V(0, -1, 0))

	before := make([]float64, s.Len())
	for i := range s.Points {
		before[i] = s.Points[i].WidthJitter
		s.Points[i].Mass = 123
	}
	s.State.Break()

	if err := s.Connect(a, b); err != nil {
		t.Fatalf("reconnect: %v", err)
	}

	changed := false
	for i := 1; i < s.Len()-1; i++ {
		p := s.Points[i]
		if p.Mass != s.LiquidQuantity*0.1 {
			t.Errorf("point %d mass %v not reset", i, p.Mass)
		}
		if p.WidthJitter < 0.3 || p.WidthJitter >= 1.0 {
			t.Errorf("point %d jitter %v outside [0.3, 1.0)", i, p.WidthJitter)
		}
		if p.WidthJitter != before[i] {
			changed = true
		}
	}
	if !changed {
		t.Error("reconnect did not draw fresh jitter")
	}
	if !s.Connected() {
		t.Error("expected connected after reconnect")
	}
}

func TestConnectUnknownAnchor(t *testing.T) {
	reg := anchor.NewRegistry()
	a := reg.Add("a", dynamo.Vec3{})
	s, err := New(DefaultParams(), reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(a, anchor.ID(99)); !errors.Is(err, dynamo.ErrUnknownAnchor) {
		t.Errorf("expected ErrUnknownAnchor, got %v", err)
	}
	if !s.Dead() {
		t.Error("failed connect must not change state")
	}
}

func TestPredictGravity(t *testing.T) {
	for _, mult := range []float64{1, 2.5} {
		s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
		s.GravityMultiplier = mult

		start := s.Positions()
		s.Predict(testDt)

		// semi-implicit Euler: v = g*dt, then x += v*dt
		drop := mult * 9.8 * testDt * testDt
		for i, p := range s.Points {
			if p.Position != start[i] {
				t.Errorf("point %d position not carried from predicted", i)
			}
			if got := start[i].Y - p.Predicted.Y; math.Abs(got-drop) > 1e-12 {
				t.Errorf("mult %v point %d dropped %v, want %v", mult, i, got, drop)
			}
			if p.Predicted.X != start[i].X || p.Predicted.Z != start[i].Z {
				t.Errorf("point %d moved horizontally", i)
			}
		}
	}
}

func TestPinInvariant(t *testing.T) {
	s, reg, a, b := newTestChain(t, 10, dynamo.V(0, 0, 0), dynamo.V(0.5, 0, 0))

	for step := 0; step < 120; step++ {
		posA := dynamo.V(0, 0.1*math.Sin(float64(step)*0.1), 0)
		posB := dynamo.V(0.5+0.002*float64(step), -0.05, 0.01)
		if err := reg.Move(a, posA); err != nil {
			t.Fatal(err)
		}
		if err := reg.Move(b, posB); err != nil {
			t.Fatal(err)
		}
		if !s.Connected() {
			break
		}
		s.CalcRestDistance(posA, posB)
		s.Step(testDt, 1)

		if !s.Connected() {
			continue
		}
		if s.Points[0].Predicted != posA {
			t.Fatalf("step %d: first point %v, anchor %v", step, s.Points[0].Predicted, posA)
		}
		if s.Points[s.Len()-1].Predicted != posB {
			t.Fatalf("step %d: last point %v, anchor %v", step, s.Points[s.Len()-1].Predicted, posB)
		}
	}
}

func TestCheckBreak(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))

	if s.CheckBreak(1) {
		t.Fatal("healthy chain should not break")
	}

	s.Points[3].Mass = s.BreakThreshold / 2
	if !s.CheckBreak(1) {
		t.Fatal("expected break")
	}
	if int(s.State) != 0 || !s.State.Disconnected() {
		t.Errorf("expected counter 0 after break, got %d", s.State)
	}
}

func TestCheckBreakLengthScale(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))

	// interior mass 0.5 * 0.01 falls under the 0.01 threshold
	if !s.CheckBreak(0.01) {
		t.Error("expected the length scale to trigger a break")
	}
}

func TestCheckBreakIgnoredWhenDisconnected(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
	s.State.Break()
	s.State.Decay()
	s.Points[2].Mass = 0

	if s.CheckBreak(1) {
		t.Error("disconnected chain reported a break")
	}
	if int(s.State) != -1 {
		t.Errorf("counter changed to %d", s.State)
	}
}

func TestDecayToDead(t *testing.T) {
	const lifetime = 60
	var c ConnectState
	c.Arm()

	// first call leaves the connected state, the next 60 count down
	for call := 1; call <= 61; call++ {
		c.Decay()
		if call < 61 && c.Dead(lifetime) {
			t.Fatalf("dead too early after call %d (counter %d)", call, c)
		}
	}
	if !c.Dead(lifetime) || int(c) != -lifetime {
		t.Errorf("expected dead at counter %d, got %d", -lifetime, c)
	}

	c.Break()
	for step := 1; step <= lifetime; step++ {
		c.Decay()
		if got := c.Dead(lifetime); got != (step == lifetime) {
			t.Fatalf("decay step %d: dead=%v", step, got)
		}
	}
}

func TestDistanceConstraintConvergence(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(0.8, 0, 0))
	s.RestDistance = 1.0 / 6.0
	last := s.Len() - 1
	for i := 1; i < last; i++ {
		u := float64(i) / float64(last)
		s.Points[i].Predicted = dynamo.V(0.8*u, -0.3*math.Sin(math.Pi*u), 0)
	}

	edgeError := func(c *Solver) float64 {
		var sum float64
		for i := 0; i < c.Len()-1; i++ {
			sum += math.Abs(c.Points[i].Predicted.Dist(c.Points[i+1].Predicted) - c.RestDistance)
		}
		return sum
	}

	prev := edgeError(s)
	for _, k := range []int{1, 2, 4, 8, 16, 32, 64, 128} {
		c := *s
		c.Points = append([]Point(nil), s.Points...)
		c.Iterations = k
		c.DistanceConstraint()

		e := edgeError(&c)
		if e > prev+1e-9 {
			t.Errorf("error grew with %d iterations: %v > %v", k, e, prev)
		}
		prev = e
	}
	if prev > 1e-4 {
		t.Errorf("did not converge: residual %v", prev)
	}
}

func TestDistanceConstraintZeroLength(t *testing.T) {
	s, _, _, _ := newTestChain(t, 4, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
	for i := range s.Points {
		s.Points[i].Predicted = dynamo.Vec3{}
	}
	s.DistanceConstraint()
	for i, p := range s.Points {
		if !p.Predicted.IsValid() {
			t.Fatalf("point %d became %v", i, p.Predicted)
		}
	}
}

func TestStraightness(t *testing.T) {
	p := DefaultParams()
	s := &Solver{Params: p}

	tests := []struct {
		length   float64
		expected float64
	}{
		{0, 1},
		{0.015, 1},
		{0.03, 1},
		{0.06, 0.125},
		{0.3, 0.001},
	}
	for _, tt := range tests {
		if got := s.Straightness(tt.length); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Straightness(%v) = %v, want %v", tt.length, got, tt.expected)
		}
	}
}

func TestMakeStraightCoincidentAnchors(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(0.5, 0, 0))
	for i := 1; i < s.Len()-1; i++ {
		s.Points[i].Predicted = dynamo.V(0.1, -0.2, 0)
	}
	s.MakeStraight(dynamo.Vec3{}, dynamo.Vec3{})
	for i := 1; i < s.Len()-1; i++ {
		if s.Points[i].Predicted != (dynamo.Vec3{}) {
			t.Errorf("point %d = %v, want collapsed onto the anchors", i, s.Points[i].Predicted)
		}
	}
}

func TestMakeStraightSkippedWhenDisconnected(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(0.01, 0, 0))
	s.State.Break()
	s.Points[2].Predicted = dynamo.V(0, -1, 0)
	s.MakeStraight(dynamo.V(0, 0, 0), dynamo.V(0.01, 0, 0))
	if s.Points[2].Predicted != dynamo.V(0, -1, 0) {
		t.Error("disconnected chain was straightened")
	}
}

func TestMoveLiquidFlowsDownhill(t *testing.T) {
	s, _, _, _ := newTestChain(t, 3, dynamo.V(0, 1, 0), dynamo.V(0, 0, 0))
	total := s.TotalMass()
	for i := range s.Points {
		s.Points[i].Velocity = dynamo.V(1, 0, 0)
	}

	s.MoveLiquid(testDt)

	last := s.Len() - 1
	for i := 0; i < last; i++ {
		if s.Points[i].Mass != 0 {
			t.Errorf("point %d kept mass %v", i, s.Points[i].Mass)
		}
	}
	if math.Abs(s.Points[last].Mass-total) > 1e-9 {
		t.Errorf("bottom point mass %v, want %v", s.Points[last].Mass, total)
	}
}

func TestMoveLiquidSequentialCascade(t *testing.T) {
	s, _, _, _ := newTestChain(t, 1, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
	for i := range s.Points {
		s.Points[i].Velocity = dynamo.V(0.15, 0, 0)
	}

	s.MoveLiquid(testDt)

	// pair 0 settles halfway before pair 1 reads point 1
	want := []float64{3.875, 2.46875, 4.15625}
	for i, w := range want {
		if math.Abs(s.Points[i].Mass-w) > 1e-9 {
			t.Errorf("point %d mass %v, want %v", i, s.Points[i].Mass, w)
		}
	}
}

func TestMoveLiquidStillChain(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 1, 0), dynamo.V(0, 0, 0))
	before := s.TotalMass()
	m2 := s.Points[2].Mass

	s.MoveLiquid(testDt)

	if s.Points[2].Mass != m2 || s.TotalMass() != before {
		t.Error("mass moved without velocity")
	}
}

func TestUpdateVelocity(t *testing.T) {
	s, _, _, _ := newTestChain(t, 2, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
	s.Points[1].Position = dynamo.V(0.3, 0, 0)
	s.Points[1].Predicted = dynamo.V(0.3, -0.1, 0)

	s.UpdateVelocity(0.1)

	if v := s.Points[1].Velocity; v.Dist(dynamo.V(0, -1, 0)) > 1e-12 {
		t.Errorf("velocity %v, want (0,-1,0)", v)
	}
}

func TestAnchorRemovedLeavesEndFree(t *testing.T) {
	s, reg, _, b := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
	reg.Remove(b)

	if _, _, ok := s.Ends(); ok {
		t.Fatal("Ends should fail once an anchor is gone")
	}

	last := s.Len() - 1
	y0 := s.Points[last].Predicted.Y
	s.Step(testDt, 1)

	p := s.Points[last]
	if !p.Predicted.IsValid() {
		t.Fatalf("end point became %v", p.Predicted)
	}
	if p.Predicted.Y >= y0 {
		t.Errorf("unpinned end should fall, y %v -> %v", y0, p.Predicted.Y)
	}
}

func TestBrokenChainFalls(t *testing.T) {
	s, _, _, _ := newTestChain(t, 5, dynamo.V(0, 0, 0), dynamo.V(1, 0, 0))
	s.State.Break()

	for i := 0; i < 10; i++ {
		s.State.Decay()
		s.Step(testDt, 1)
	}
	for i, p := range s.Points {
		if p.Predicted.Y >= 0 {
			t.Errorf("point %d did not fall: %v", i, p.Predicted)
		}
	}
}

func TestParamsSetParam(t *testing.T) {
	p := DefaultParams()
	if err := p.SetParam("gravity_multiplier", 2); err != nil {
		t.Fatal(err)
	}
	if p.GravityMultiplier != 2 {
		t.Errorf("gravity multiplier = %v", p.GravityMultiplier)
	}
	if err := p.SetParam("iterations", 0); !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected rejection of zero iterations, got %v", err)
	}
	if err := p.SetParam("free_points", 3); !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected rejection of structural param, got %v", err)
	}
	if len(ParamNames()) != len(p.GetParams()) {
		t.Error("ParamNames out of sync with GetParams")
	}
}
