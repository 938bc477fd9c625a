package render

import (
	"math"
	"testing"

	"github.com/san-kum/liquidchain/internal/chain"
	"github.com/san-kum/liquidchain/internal/dynamo"
)

func TestLengthScale(t *testing.T) {
	tests := []struct {
		base, rest float64
		expected   float64
	}{
		{0.1, 0.05, 1},
		{0.1, 0.1, 1},
		{0.1, 0.2, 0.125},
		{0.1, 0.4, 0.015625},
		{0.1, 0, 1},
	}
	for _, tt := range tests {
		if got := LengthScale(tt.base, tt.rest); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("LengthScale(%v, %v) = %v, want %v", tt.base, tt.rest, got, tt.expected)
		}
	}
}

func TestBrokenMultiplierDecays(t *testing.T) {
	s := NewStrip(DefaultSettings())
	dt := 1.0 / 60.0

	prev := s.BrokenMultiplier
	for i := 0; i < 60; i++ {
		s.UpdateBrokenMultiplier(dt)
		if s.BrokenMultiplier >= prev {
			t.Fatalf("fade did not decrease at step %d: %v >= %v", i, s.BrokenMultiplier, prev)
		}
		prev = s.BrokenMultiplier
	}
	// (1 - 0.25)^60
	if want := math.Pow(0.75, 60); math.Abs(prev-want) > 1e-12 {
		t.Errorf("fade after 60 steps = %v, want %v", prev, want)
	}

	s.ResetBroken()
	if s.BrokenMultiplier != 1 {
		t.Errorf("ResetBroken left %v", s.BrokenMultiplier)
	}
}

func TestFrameWidths(t *testing.T) {
	s := NewStrip(DefaultSettings())
	s.CalcLengthMultiplier(0.2)
	s.BrokenMultiplier = 0.5

	points := []chain.Point{
		{Predicted: dynamo.V(0, 0, 0), Mass: 5, WidthJitter: 0},
		{Predicted: dynamo.V(1, 0, 0), Mass: 2, WidthJitter: 0.5},
		{Predicted: dynamo.V(2, 0, 0), Mass: 0.1, WidthJitter: 0.5},
	}
	f := s.Frame(points)

	if !f.Enabled || len(f.Points) != 3 || len(f.Samples) != 3 {
		t.Fatalf("unexpected frame %+v", f)
	}
	want := []Sample{
		{T: 0, Width: 0.1 * 0.125 * 0.5},
		{T: 0.5, Width: 1.0 * 0.125 * 0.5},
		{T: 1, Width: 0.1 * 0.125 * 0.5},
	}
	for i, w := range want {
		got := f.Samples[i]
		if math.Abs(got.T-w.T) > 1e-12 || math.Abs(got.Width-w.Width) > 1e-12 {
			t.Errorf("sample %d = %+v, want %+v", i, got, w)
		}
	}
	if f.WidthMultiplier != DefaultWidth {
		t.Errorf("width multiplier %v", f.WidthMultiplier)
	}
	if ww := f.WorldWidth(1); math.Abs(ww-0.0625*DefaultWidth) > 1e-15 {
		t.Errorf("WorldWidth = %v", ww)
	}
}

func TestHiddenFrame(t *testing.T) {
	f := Hidden()
	if f.Enabled || len(f.Points) != 0 || f.WorldWidth(0) != 0 {
		t.Errorf("hidden frame should be empty, got %+v", f)
	}
}
