package view

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwhardin/probata/internal/workflow"
)

// DeadlinesModel lists statutory deadlines with their completion state.
type DeadlinesModel struct {
	CommonModel
	eng *workflow.Engine

	table table.Model
}

func NewDeadlinesModel(eng *workflow.Engine) DeadlinesModel {
	columns := []table.Column{
		{Title: "Deadline", Width: 30},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := DeadlinesModel{eng: eng, table: t}
	m.refreshTable()

	return m
}

func (m DeadlinesModel) Title() string     { return "Deadlines" }
func (m DeadlinesModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DeadlinesModel) Init() tea.Cmd {
	return nil
}

func (m DeadlinesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refreshTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DeadlinesModel) View() string {
	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(tableView)
}

func (m *DeadlinesModel) refreshTable() {
	now := time.Now()

	rows := []table.Row{}
	for _, d := range m.eng.Deadlines().Deadlines() {
		status := "pending"

		switch {
		case d.Completed:
			status = "completed"
		case d.DueDate.Before(now):
			status = overdueStyle("OVERDUE")
		}

		rows = append(rows, table.Row{
			string(d.Type),
			FormatDate(d.DueDate),
			status,
		})
	}

	m.table.SetRows(rows)
}

func overdueStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render(s)
}
