package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kintree/kintree/pkg/family"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PersonListModel - Interactive reference person selection
// =============================================================================

// PersonListModel is the bubbletea model for picking a reference person.
type PersonListModel struct {
	Persons  []family.Person
	RootID   string
	Cursor   int
	Selected *family.Person
	Height   int
	Offset   int
	Filter   string
	filtered []int
}

// NewPersonListModel creates a picker with the cursor on the current root.
func NewPersonListModel(persons []family.Person, rootID string) PersonListModel {
	m := PersonListModel{Persons: persons, RootID: rootID, Height: 15}
	m.applyFilter()
	for i, idx := range m.filtered {
		if persons[idx].ID == rootID {
			m.Cursor = i
			m.scroll()
		}
	}
	return m
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown:
			m.move(1)
		case tea.KeyEnter:
			if len(m.filtered) == 0 {
				return m, nil
			}
			p := m.Persons[m.filtered[m.Cursor]]
			m.Selected = &p
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m *PersonListModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.filtered) {
		return
	}
	m.Cursor = next
	m.scroll()
}

func (m *PersonListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// applyFilter keeps persons whose name or id contains the filter text.
func (m *PersonListModel) applyFilter() {
	needle := strings.ToLower(m.Filter)
	var filtered []int
	for i, p := range m.Persons {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.ID), needle) {
			filtered = append(filtered, i)
		}
	}
	m.filtered = filtered
	m.Cursor, m.Offset = 0, 0
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Reference Person"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  type to filter  ⏎ select  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleHighlight.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(listDimStyle.Render("  no matching persons"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.filtered))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Persons[m.filtered[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		current := ""
		if p.ID == m.RootID {
			current = "✓"
		}
		rows = append(rows, []string{cursor, p.Name, p.ID, string(p.Gender), current})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "ID", "Gender", "Root").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.filtered))))

	return b.String()
}

// pickPerson runs the picker and returns the chosen id, or "" when the user
// quits without choosing.
func pickPerson(doc family.Document) (string, error) {
	final, err := tea.NewProgram(NewPersonListModel(doc.Persons, doc.RootID)).Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(PersonListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.ID, nil
}
