package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/idlab-discover/modelmaster-cli/internal/apperr"
)

// ColumnInfo describes one CSV column offered as a target variable
type ColumnInfo struct {
	Name    string
	Samples []string
	Numeric bool
}

// ColumnSelectorConfig configures the target column selector
type ColumnSelectorConfig struct {
	FileName string
	Columns  []ColumnInfo
}

// columnItem represents a column in the list
type columnItem struct {
	info ColumnInfo
}

func (i columnItem) Title() string { return i.info.Name }

func (i columnItem) Description() string {
	kind := "categorical"
	if i.info.Numeric {
		kind = "numeric"
	}
	if len(i.info.Samples) == 0 {
		return Dim.Render(kind)
	}
	return fmt.Sprintf("%s %s", Dim.Render(kind+" ·"), Dim.Render("e.g. "+strings.Join(i.info.Samples, ", ")))
}

func (i columnItem) FilterValue() string { return i.info.Name }

// columnSelectorModel is the Bubble Tea model for picking the target column
type columnSelectorModel struct {
	textInput textinput.Model
	list      list.Model
	fileName  string
	all       []ColumnInfo
	query     string
	chosen    string
	quitting  bool
	confirmed bool
}

// NewColumnSelector creates a new interactive column selector
func NewColumnSelector(config ColumnSelectorConfig) *columnSelectorModel {
	ti := textinput.New()
	ti.Placeholder = "Filter columns..."
	ti.CharLimit = 128
	ti.SetWidth(40)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorHighlight).
		BorderForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorTextDim).
		BorderForeground(ColorPrimary)

	l := list.New(columnItems(config.Columns, ""), delegate, 60, 16)
	l.Title = "Target variable"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)

	return &columnSelectorModel{
		textInput: ti,
		list:      l,
		fileName:  config.FileName,
		all:       config.Columns,
	}
}

func columnItems(cols []ColumnInfo, query string) []list.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	items := make([]list.Item, 0, len(cols))
	for _, c := range cols {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) {
			continue
		}
		items = append(items, columnItem{info: c})
	}
	return items
}

// Init initializes the model
func (m *columnSelectorModel) Init() tea.Cmd { return nil }

// Update handles messages
func (m *columnSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.textInput.Focused() {
			switch msg.String() {
			case "ctrl+c", "esc":
				m.quitting = true
				return m, tea.Quit
			case "enter", "down", "up":
				m.textInput.Blur()
				return m, nil
			default:
				var cmd tea.Cmd
				m.textInput, cmd = m.textInput.Update(msg)
				if q := m.textInput.Value(); q != m.query {
					m.query = q
					m.list.SetItems(columnItems(m.all, q))
				}
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if i, ok := m.list.SelectedItem().(columnItem); ok {
				m.chosen = i.info.Name
				m.confirmed = true
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		case "/":
			m.textInput.Focus()
			return m, textinput.Blink
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model
func (m *columnSelectorModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(Title.Render("Select the column to predict"))
	if m.fileName != "" {
		b.WriteString(" " + Dim.Render("("+m.fileName+")"))
	}
	b.WriteString("\n\n")

	b.WriteString(Dim.Render("Filter: "))
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.list.View())
	b.WriteString("\n\n")

	help := lipgloss.NewStyle().Foreground(ColorTextDim)
	if m.textInput.Focused() {
		b.WriteString(help.Render("enter/↑/↓: back to list · esc: cancel"))
	} else {
		b.WriteString(help.Render("↑/↓: navigate · enter: choose · /: filter · esc: cancel"))
	}

	return tea.NewView(b.String())
}

// Selected returns the chosen column name, or "" when nothing was chosen
func (m *columnSelectorModel) Selected() string { return m.chosen }

// WasConfirmed returns true if the user confirmed a column
func (m *columnSelectorModel) WasConfirmed() bool { return m.confirmed }

// RunColumnSelector runs the interactive column selector and returns the chosen column
func RunColumnSelector(config ColumnSelectorConfig) (string, error) {
	if len(config.Columns) == 0 {
		return "", apperr.Titled("No columns found", "The selected file has no header row.")
	}

	p := tea.NewProgram(NewColumnSelector(config))
	m, err := p.Run()
	if err != nil {
		return "", err
	}

	model := m.(*columnSelectorModel)
	if !model.WasConfirmed() {
		return "", apperr.ErrCancelled
	}
	return model.Selected(), nil
}
