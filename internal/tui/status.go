// Package tui renders a live status pane for the running agent.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roadsense/internal/agent"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type tickMsg time.Time

// Model polls the agent once a second and renders its snapshot.
type Model struct {
	agent      *agent.Agent
	queueDepth func() map[string]int
	snap       agent.Snapshot
	queues     map[string]int
}

// New creates the status model. queueDepth may be nil.
func New(a *agent.Agent, queueDepth func() map[string]int) Model {
	return Model{agent: a, queueDepth: queueDepth}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.agent.Snapshot()
		if m.queueDepth != nil {
			m.queues = m.queueDepth()
		}
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "f":
			m.agent.EndTrip()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.snap
	rows := []string{
		titleStyle.Render("roadsense"),
		line("state", s.State),
		line("samples", fmt.Sprintf("%d", s.Stats.Ingested)),
		line("cells", fmt.Sprintf("%d", s.Stats.Cells)),
		line("potholes", fmt.Sprintf("%d", s.Potholes)),
		line("dropped", fmt.Sprintf("acc %d / fix %d / handling %d",
			s.Stats.DroppedAccuracy, s.Stats.DroppedMissingFix, s.Stats.DroppedHandling)),
		line("trips closed", fmt.Sprintf("%d", s.TripsClosed)),
	}
	if s.LastTrim != "" {
		rows = append(rows, line("last trim", s.LastTrim))
	}
	for name, depth := range m.queues {
		rows = append(rows, line("queue "+name, fmt.Sprintf("%d", depth)))
	}
	if n := len(s.LastPotholes); n > 0 {
		last := s.LastPotholes[n-1]
		rows = append(rows, alertStyle.Render(
			fmt.Sprintf("last pothole: %s %.2fg", last.Severity, last.PeakG)))
	}
	rows = append(rows, labelStyle.Render("q quit · f end trip"))
	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func line(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-13s", label)) + valueStyle.Render(value)
}

// Run blocks until the user quits the status view.
func Run(a *agent.Agent, queueDepth func() map[string]int) error {
	_, err := tea.NewProgram(New(a, queueDepth)).Run()
	return err
}
