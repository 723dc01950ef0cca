package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/chemketoo/gentleHMC/internal/hmc"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 400
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model animates a running chain: the scatter of samples so far, the
// leapfrog path of the latest proposal, and a log-density trace.
type Model struct {
	chain      *hmc.Chain
	target     hmc.Target
	targetName string

	canvas   *Canvas
	bounds   Bounds
	samples  []hmc.State
	lastTraj hmc.Trajectory

	logDensHistory []float64
	iterations     int
	accepted       int
	divergences    int

	running  bool
	showPath bool
}

func NewModel(t hmc.Target, targetName string, chain *hmc.Chain, bounds Bounds) Model {
	return Model{
		chain:          chain,
		target:         t,
		targetName:     targetName,
		canvas:         NewCanvas(canvasWidth, canvasHeight),
		bounds:         bounds,
		samples:        make([]hmc.State, 0, historyCapacity),
		logDensHistory: make([]float64, 0, historyCapacity),
		running:        true,
		showPath:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "p":
			m.showPath = !m.showPath
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	it, traj := m.chain.Step()

	m.iterations++
	if it.Accepted {
		m.accepted++
	}
	if it.Divergent {
		m.divergences++
	}
	m.lastTraj = traj

	m.samples = append(m.samples, it.Sample.Clone())
	if len(m.samples) > historyCapacity {
		m.samples = m.samples[1:]
	}

	m.logDensHistory = append(m.logDensHistory, m.target.LogDensity(it.Sample))
	if len(m.logDensHistory) > historyCapacity {
		m.logDensHistory = m.logDensHistory[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	PlotSamples(m.canvas, m.bounds, m.samples)
	if m.showPath && m.lastTraj != nil {
		PlotTrajectory(m.canvas, m.bounds, m.lastTraj)
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.targetName)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if len(m.logDensHistory) > 1 {
		chart := asciigraph.Plot(m.logDensHistory,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("log density"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Iterations") + valueStyle.Render(fmt.Sprintf("%d", m.iterations)) + "\n")
	rate := 0.0
	if m.iterations > 0 {
		rate = float64(m.accepted) / float64(m.iterations)
	}
	s.WriteString(labelStyle.Render("Accept rate") + valueStyle.Render(fmt.Sprintf("%.3f", rate)) + "\n")
	s.WriteString(labelStyle.Render("Divergences") + valueStyle.Render(fmt.Sprintf("%d", m.divergences)) + "\n")
	if m.iterations > 0 {
		pos := m.chain.Position()
		s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("(%.3f, %.3f)", pos[0], pos[1])) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause P:Path Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
