package viz

import "github.com/charmbracelet/lipgloss"

// Palette colors the strand and the status line.
type Palette struct {
	Name   string
	Strand lipgloss.Color
	Broken lipgloss.Color
}

var Palettes = []Palette{
	{Name: "water", Strand: lipgloss.Color("#00a8cc"), Broken: lipgloss.Color("#4488aa")},
	{Name: "honey", Strand: lipgloss.Color("#feca57"), Broken: lipgloss.Color("#8b6b3c")},
	{Name: "slime", Strand: lipgloss.Color("#00ff00"), Broken: lipgloss.Color("#005500")},
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusConnected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusBroken    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusDead      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	statusPaused    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#666688"))
	statusError     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Width(44)
)
