package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwhardin/probata/internal/workflow"
)

// OverviewModel shows the inventory with estate-level totals underneath.
type OverviewModel struct {
	CommonModel
	eng *workflow.Engine

	table table.Model
}

func NewOverviewModel(eng *workflow.Engine) OverviewModel {
	columns := []table.Column{
		{Title: "Type", Width: 20},
		{Title: "Description", Width: 36},
		{Title: "Estimated", Width: 14},
		{Title: "Appraised", Width: 14},
		{Title: "Net", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	m := OverviewModel{eng: eng, table: t}
	m.refreshTable()

	return m
}

func (m OverviewModel) Title() string     { return "Estate Overview" }
func (m OverviewModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m OverviewModel) Init() tea.Cmd {
	return nil
}

func (m OverviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m OverviewModel) View() string {
	est := m.eng.Estate()
	summary := m.eng.Assets().Summary()
	claims := m.eng.Claims().Report()

	header := fmt.Sprintf(
		"Estate of %s | %s | Status: %s",
		est.DecedentName,
		est.Jurisdiction.String(),
		activeStyle(string(est.Status)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	totals := fmt.Sprintf(
		"Gross (est/appraised): %s / %s   Encumbered: %s   Net estate: %s\nClaims allowed outstanding: %s",
		FormatAmount(summary.TotalEstimated),
		FormatAmount(summary.TotalAppraised),
		FormatAmount(summary.TotalEncumbrance),
		FormatAmount(summary.NetValue),
		FormatAmount(claims.OutstandingAllowed),
	)

	if summary.TotalDeficiency > 0 {
		totals += fmt.Sprintf("\nSecured deficiency: %s", FormatAmount(summary.TotalDeficiency))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().PaddingTop(1).Render(totals),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *OverviewModel) refreshTable() {
	assets := m.eng.Assets().Assets()

	rows := make([]table.Row, 0, len(assets))
	for _, a := range assets {
		appraised := "-"
		if a.FairMarketValue != nil {
			appraised = FormatAmount(*a.FairMarketValue)
		}

		rows = append(rows, table.Row{
			string(a.Type),
			a.Description,
			FormatAmount(a.EstimatedValue),
			appraised,
			FormatAmount(a.NetValue()),
		})
	}

	m.table.SetRows(rows)
}
