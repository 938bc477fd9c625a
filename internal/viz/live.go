package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/liquidchain/internal/anchor"
	"github.com/san-kum/liquidchain/internal/config"
	"github.com/san-kum/liquidchain/internal/dynamo"
	"github.com/san-kum/liquidchain/internal/sim"
)

const (
	width           = 70
	height          = 22
	historyCapacity = 600
	nudge           = 0.01
	// dots of radius per unit of render width
	thicknessScale = 4
)

type TickMsg time.Time

// Model runs one scenario live and draws it every tick.
type Model struct {
	name    string
	cfg     *config.Config
	seed    int64
	runner  *sim.Runner
	frame   sim.Frame
	canvas  *Canvas
	view    Viewport
	running bool
	palette int
	breaks  int
	err     error // last failed reset; the previous scenario keeps running

	massHistory []float64
}

func NewModel(name string, cfg *config.Config, seed int64) (Model, error) {
	m := Model{
		name:    name,
		cfg:     cfg,
		seed:    seed,
		canvas:  NewCanvas(width, height),
		running: true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	r, err := sim.FromConfig(m.cfg, m.seed)
	if err != nil {
		return err
	}
	m.runner = r
	m.frame = sim.Frame{}
	m.breaks = 0
	m.massHistory = make([]float64, 0, historyCapacity)

	reg := r.Registry()
	points := make([]dynamo.Vec3, 0, reg.Len())
	for _, id := range reg.IDs() {
		if p, ok := reg.Position(id); ok {
			points = append(points, p)
		}
	}
	w, h := m.canvas.Size()
	m.view = FitViewport(points, w, h)
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		case "t":
			m.palette = (m.palette + 1) % len(Palettes)
		case "left", "h":
			m.moveTarget(-nudge, 0)
		case "right", "l":
			m.moveTarget(nudge, 0)
		case "up", "k":
			m.moveTarget(0, nudge)
		case "down", "j":
			m.moveTarget(0, -nudge)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.frame = m.runner.Advance(m.cfg.Dt)
	if m.frame.Event == sim.EventBroken {
		m.breaks++
	}
	m.massHistory = append(m.massHistory, m.frame.TotalMass)
	if len(m.massHistory) > historyCapacity {
		m.massHistory = m.massHistory[1:]
	}
}

// moveTarget takes the connected anchor off its script and nudges it.
func (m *Model) moveTarget(dx, dy float64) {
	id := m.runner.Host().Target
	if id == anchor.None {
		return
	}
	reg := m.runner.Registry()
	pos, ok := reg.Position(id)
	if !ok {
		return
	}
	m.runner.Release(id)
	_ = reg.Move(id, pos.Add(dynamo.V(dx, dy, 0)))
}

func (m *Model) draw() {
	m.canvas.Clear()

	rf := m.frame.Render
	if rf.Enabled {
		for i := 0; i+1 < len(rf.Points); i++ {
			x0, y0 := m.view.Project(rf.Points[i])
			x1, y1 := m.view.Project(rf.Points[i+1])
			r := int((rf.Samples[i].Width + rf.Samples[i+1].Width) / 2 * thicknessScale)
			m.canvas.ThickLine(x0, y0, x1, y1, r)
		}
	}

	reg := m.runner.Registry()
	for _, id := range reg.IDs() {
		if p, ok := reg.Position(id); ok {
			x, y := m.view.Project(p)
			m.canvas.Disc(x, y, 1)
		}
	}
}

func (m Model) status() string {
	s := m.runner.Host().Solver
	switch {
	case !m.running:
		return statusPaused.Render("PAUSED")
	case s.Connected():
		return statusConnected.Render("CONNECTED")
	case s.Dead():
		return statusDead.Render("DEAD")
	}
	return statusBroken.Render(fmt.Sprintf("BROKEN (%d)", int(s.State)))
}

func (m Model) View() string {
	m.draw()
	pal := Palettes[m.palette]
	color := pal.Strand
	if !m.frame.Connected {
		color = pal.Broken
	}
	canvasView := canvasStyle.Foreground(color).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n")
	if m.err != nil {
		s.WriteString(statusError.Render("RESET FAILED: "+m.err.Error()) + "\n")
	}
	s.WriteString("\n")

	if len(m.massHistory) > 1 {
		chart := asciigraph.Plot(m.massHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("total mass"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	f := m.frame
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Counter", fmt.Sprintf("%d", f.Counter))
	row("Rest", fmt.Sprintf("%.4f", f.RestDistance))
	row("Mass", fmt.Sprintf("%.3f", f.TotalMass))
	row("Min mass", fmt.Sprintf("%.4f", f.MinMass))
	row("Fade", fmt.Sprintf("%.3f", f.Fade))
	row("Breaks", fmt.Sprintf("%d", m.breaks))
	row("Palette", pal.Name)

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nT:Palette ←↑↓→:Move target"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the live view and blocks until the user quits.
func Run(name string, cfg *config.Config, seed int64) error {
	m, err := NewModel(name, cfg, seed)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
