package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sortdesk/sortdesk/internal/engine"
)

// view selects which section the viewer shows.
type view int

const (
	viewSummary view = iota
	viewDetails
)

// Model is the bubbletea model for browsing a saved report.
type Model struct {
	report   *engine.Report
	viewport viewport.Model
	current  view
	ready    bool
}

// NewModel creates a viewer for the given report.
func NewModel(report *engine.Report) Model {
	return Model{report: report, current: viewSummary}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			m.current = viewSummary
			m.viewport.SetContent(RenderSummary(m.report))
			m.viewport.GotoTop()
		case "d":
			m.current = viewDetails
			m.viewport.SetContent(RenderDetails(m.report))
			m.viewport.GotoTop()
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.viewport.SetContent(RenderSummary(m.report))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 3
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading report..."
	}

	scroll := fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
	footer := FooterStyle.Render(fmt.Sprintf("[s]ummary  [d]etails  [q]uit  %s", scroll))

	return m.viewport.View() + "\n" + footer
}
