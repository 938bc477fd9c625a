package chain_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/dynamo"
)

const dt = 1.0 / 60.0

var _ = Describe("ConnectState", func() {
	const lifetime = 60

	It("is connected only at exactly 1", func() {
		for _, v := range []int{2, 0, -1, -lifetime} {
			Expect(chain.ConnectState(v).Connected()).To(BeFalse())
		}
		Expect(chain.ConnectState(1).Connected()).To(BeTrue())
	})

	It("counts down one per decay while disconnected", func() {
		var c chain.ConnectState
		c.Arm()
		c.Break()
		for i := 1; i <= lifetime; i++ {
			prev := c
			c.Decay()
			Expect(int(c)).To(Equal(int(prev) - 1))
		}
		Expect(c.Dead(lifetime)).To(BeTrue())
		Expect(c.Label(lifetime)).To(Equal("dead"))
	})

	It("labels each phase", func() {
		Expect(chain.ConnectState(1).Label(lifetime)).To(Equal("connected"))
		Expect(chain.ConnectState(-3).Label(lifetime)).To(Equal("broken"))
	})
})

var _ = Describe("Solver lifecycle", func() {
	var (
		reg      *anchor.Registry
		src, dst anchor.ID
		s        *chain.Solver
	)

	BeforeEach(func() {
		reg = anchor.NewRegistry()
		src = reg.Add("source", dynamo.V(0, 0, 0))
		dst = reg.Add("cup", dynamo.V(0.3, -0.1, 0))

		p := chain.DefaultParams()
		p.FreePoints = 6
		p.Lifetime = 10

		var err error
		s, err = chain.New(p, reg, rand.New(rand.NewSource(3)))
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts dead and connects on demand", func() {
		Expect(s.Dead()).To(BeTrue())
		Expect(s.Connect(src, dst)).To(Succeed())
		Expect(s.Connected()).To(BeTrue())
		Expect(s.Points).To(HaveLen(8))
	})

	It("pins both ends while connected", func() {
		Expect(s.Connect(src, dst)).To(Succeed())
		for i := 0; i < 30 && s.Connected(); i++ {
			Expect(reg.Move(dst, dynamo.V(0.3, -0.1-0.001*float64(i), 0))).To(Succeed())
			a, b, ok := s.Ends()
			Expect(ok).To(BeTrue())
			s.CalcRestDistance(a, b)
			s.Step(dt, 1)
			if s.Connected() {
				Expect(s.Points[0].Predicted).To(Equal(a))
				Expect(s.Points[len(s.Points)-1].Predicted).To(Equal(b))
			}
		}
	})

	It("breaks, decays to dead and reconnects", func() {
		Expect(s.Connect(src, dst)).To(Succeed())
		s.Points[2].Mass = 0

		Expect(s.CheckBreak(1)).To(BeTrue())
		Expect(s.State.Disconnected()).To(BeTrue())

		steps := 0
		for !s.Dead() {
			s.State.Decay()
			s.Step(dt, 1)
			steps++
		}
		Expect(steps).To(Equal(s.Lifetime))

		Expect(s.Connect(src, dst)).To(Succeed())
		Expect(int(s.State)).To(Equal(1))
		for _, p := range s.Points[1 : len(s.Points)-1] {
			Expect(p.Mass).To(BeNumerically("~", s.LiquidQuantity*chain.InteriorMassRatio, 1e-12))
			Expect(p.WidthJitter).To(And(BeNumerically(">=", 0.3), BeNumerically("<", 1.0)))
		}
	})

	It("keeps the last rest distance while broken", func() {
		Expect(s.Connect(src, dst)).To(Succeed())
		rest := s.RestDistance
		s.State.Break()

		for i := 0; i < 5; i++ {
			s.State.Decay()
			s.Step(dt, 1)
		}
		Expect(s.RestDistance).To(Equal(rest))
	})

	It("stays finite when the anchors coincide", func() {
		Expect(reg.Move(dst, dynamo.V(0, 0, 0))).To(Succeed())
		Expect(s.Connect(src, dst)).To(Succeed())
		for i := 0; i < 20; i++ {
			a, b, _ := s.Ends()
			s.CalcRestDistance(a, b)
			s.Step(dt, 1)
		}
		for _, p := range s.Points {
			Expect(p.Predicted.IsValid()).To(BeTrue())
			Expect(p.Velocity.IsValid()).To(BeTrue())
			Expect(p.Mass).To(BeNumerically(">=", 0))
		}
	})
})
