package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/idlab-discover/modelmaster-cli/internal/ranking"
	"github.com/idlab-discover/modelmaster-cli/internal/results"
)

// BrowserTab identifies a tab of the results browser
type BrowserTab int

const (
	TabSummary BrowserTab = iota
	TabModels
	TabDistribution
)

func (t BrowserTab) String() string {
	switch t {
	case TabSummary:
		return "Summary"
	case TabModels:
		return "All Models"
	case TabDistribution:
		return "Class Distribution"
	}
	return ""
}

// BrowserModel is the Bubble Tea model for browsing a completed run
type BrowserModel struct {
	view     ranking.View
	dist     *results.ClassDistribution
	target   string
	tabs     []BrowserTab
	active   int
	offset   int
	height   int
	quitting bool
}

// NewBrowser creates a browser over v. The distribution tab is only offered
// for classification runs.
func NewBrowser(v ranking.View, target string, dist *results.ClassDistribution) BrowserModel {
	tabs := []BrowserTab{TabSummary, TabModels}
	if v.Task == results.Classification && dist != nil {
		tabs = append(tabs, TabDistribution)
	}
	return BrowserModel{
		view:   v,
		dist:   dist,
		target: target,
		tabs:   tabs,
		height: 24,
	}
}

// Tab returns the active tab
func (m BrowserModel) Tab() BrowserTab { return m.tabs[m.active] }

// Ranking returns the current ordering
func (m BrowserModel) Ranking() ranking.View { return m.view }

// Init initializes the model
func (m BrowserModel) Init() tea.Cmd { return nil }

// Update handles messages
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab", "right", "l":
			m.active = (m.active + 1) % len(m.tabs)
			m.offset = 0
		case "shift+tab", "left", "h":
			m.active = (m.active + len(m.tabs) - 1) % len(m.tabs)
			m.offset = 0
		case "1", "2", "3":
			if i := int(msg.String()[0] - '1'); i < len(m.tabs) {
				m.active = i
				m.offset = 0
			}
		case "m":
			m.view = m.view.Resort(nextMetric(m.view.Task, m.view.Metric), m.view.Direction)
		case "o":
			m.view = m.view.Resort(m.view.Metric, m.view.Direction.Toggle())
		case "down", "j":
			if m.offset < len(m.view.Sorted)-1 {
				m.offset++
			}
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height
	}
	return m, nil
}

// nextMetric cycles through the metrics that apply to task.
func nextMetric(task results.TaskType, current results.Metric) results.Metric {
	ms := task.Metrics()
	for i, m := range ms {
		if m == current {
			return ms[(i+1)%len(ms)]
		}
	}
	return task.DefaultMetric()
}

// View renders the model
func (m BrowserModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.Tab() {
	case TabSummary:
		b.WriteString(Success.Bold(true).Render(SummaryLine(m.view)))
		b.WriteString("\n")
		b.WriteString(FormatKeyValue("Target", Highlight.Render(m.target)))
		b.WriteString("  ")
		b.WriteString(FormatKeyValue("Task", m.view.Task.Title()))
		b.WriteString("\n\n")
		b.WriteString(RenderBest(m.view))
		b.WriteString("\n\n")
		b.WriteString(SectionHeader.Render(fmt.Sprintf("Top %d", TopCount)))
		b.WriteString("\n")
		b.WriteString(RenderTop(m.view, TopCount))
	case TabModels:
		b.WriteString(Dim.Render(fmt.Sprintf("sorted by %s %s", m.view.Metric.Label(), m.view.Direction.Arrow())))
		b.WriteString("\n")
		b.WriteString(renderModelTable(m.view.Task, m.view.Metric, m.visibleRows(), m.offset+1))
	case TabDistribution:
		b.WriteString(RenderDistribution(m.dist))
	}

	b.WriteString("\n\n")
	help := lipgloss.NewStyle().Foreground(ColorTextDim)
	b.WriteString(help.Render("tab: switch view · m: sort metric · o: order · ↑/↓: scroll · q: quit"))

	return tea.NewView(b.String())
}

func (m BrowserModel) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		label := fmt.Sprintf(" %d %s ", i+1, t)
		if i == m.active {
			parts[i] = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorPrimary).
				Bold(true).
				Render(label)
		} else {
			parts[i] = Dim.Render(label)
		}
	}
	return strings.Join(parts, Muted.Render("│"))
}

// visibleRows returns the rows that fit below the header, starting at offset.
func (m BrowserModel) visibleRows() []ranking.Ranked {
	rows := m.view.Sorted
	if m.offset < len(rows) {
		rows = rows[m.offset:]
	}
	// tabs, caption, borders, header and help take about 10 lines
	if limit := m.height - 10; limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// RunBrowser runs the interactive results browser until the user quits
func RunBrowser(v ranking.View, target string, dist *results.ClassDistribution) error {
	p := tea.NewProgram(NewBrowser(v, target, dist))
	_, err := p.Run()
	return err
}
