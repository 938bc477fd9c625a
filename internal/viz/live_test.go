package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/liquidchain/internal/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Chain.BreakThreshold = 0
	m, err := NewModel("bridge", cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	if m.frame.Step != 3 {
		t.Errorf("expected 3 steps, got %d", m.frame.Step)
	}
	if len(m.massHistory) != 3 {
		t.Errorf("expected 3 history samples, got %d", len(m.massHistory))
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = send(m, TickMsg(time.Now()))
	if m.frame.Step != 0 {
		t.Error("paused model should not step")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show paused status")
	}
}

func TestModelMoveTarget(t *testing.T) {
	m := newTestModel(t)
	reg := m.runner.Registry()
	id := m.runner.Host().Target
	before, _ := reg.Position(id)

	m = send(m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(m, TickMsg(time.Now()))

	after, _ := reg.Position(id)
	if d := after.X - before.X; d < nudge*0.99 || d > nudge*1.01 {
		t.Errorf("target moved by %v, want %v", d, nudge)
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.runner.Host().Steps() != 0 || len(m.massHistory) != 0 {
		t.Error("reset should rebuild the scenario")
	}
}

func TestModelResetFailureKeepsRunner(t *testing.T) {
	cfg := config.DefaultConfig()
	m, err := NewModel("bridge", cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, TickMsg(time.Now()))
	runner := m.runner

	cfg.Anchors[1].Motion.Kind = "warp"
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if m.err == nil {
		t.Fatal("expected the failed reset to be kept")
	}
	if m.runner != runner || m.runner.Host().Steps() != 1 {
		t.Error("failed reset should leave the running scenario alone")
	}
	if !strings.Contains(m.View(), "RESET FAILED") {
		t.Error("view should report the failed reset")
	}

	cfg.Anchors[1].Motion.Kind = "static"
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.err != nil || m.runner.Host().Steps() != 0 {
		t.Errorf("reset should recover once the scenario is valid, err=%v", m.err)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))
	m = send(m, TickMsg(time.Now()))

	v := m.View()
	for _, want := range []string{"BRIDGE", "CONNECTED", "total mass", "Rest"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
