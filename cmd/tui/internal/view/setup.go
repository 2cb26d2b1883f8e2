package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"
)

// SetupModel collects the intake details for a new estate. It is the first
// screen when no snapshot was restored.
type SetupModel struct {
	CommonModel
	table *rules.Table

	form *huh.Form
	err  error

	formName   string
	formDate   string
	formState  string
	formCounty string
	formRep    string
	formValue  string
}

func NewSetupModel(table *rules.Table) SetupModel {
	m := SetupModel{table: table}

	states := table.Jurisdictions()
	options := make([]huh.Option[string], 0, len(states))
	for _, s := range states {
		options = append(options, huh.NewOption(s, s))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("decedent").
				Title("Decedent name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("decedent name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("date_of_death").
				Title("Date of death (YYYY-MM-DD)").
				Value(&m.formDate).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}),

			huh.NewSelect[string]().
				Key("state").
				Title("State").
				Options(options...).
				Value(&m.formState),

			huh.NewInput().
				Key("county").
				Title("County").
				Value(&m.formCounty),

			huh.NewInput().
				Key("representative").
				Title("Personal representative").
				Value(&m.formRep),

			huh.NewInput().
				Key("value").
				Title("Estimated gross value").
				Placeholder("250000.00").
				Value(&m.formValue).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := decimal.NewFromString(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	return m
}

func (m SetupModel) Title() string     { return "Open Estate" }
func (m SetupModel) ShortHelp() string { return "Navigate form | Ctrl+C: quit" }

func (m SetupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	date, _ := time.Parse(time.DateOnly, m.form.GetString("date_of_death"))

	value := int64(0)
	if s := strings.TrimSpace(m.form.GetString("value")); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			value = d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
	}

	eng, err := workflow.New(estate.CreateParams{
		DecedentName: m.form.GetString("decedent"),
		DateOfDeath:  date,
		Jurisdiction: estate.Jurisdiction{
			State:  m.form.GetString("state"),
			County: m.form.GetString("county"),
		},
		Representative:      estate.Representative{Name: m.form.GetString("representative")},
		EstimatedGrossValue: value,
	}, m.table)
	if err != nil {
		m.err = err
		m.form = NewSetupModel(m.table).form

		return m, m.form.Init()
	}

	return m, func() tea.Msg {
		return EstateReadyMsg{Engine: eng}
	}
}

func (m SetupModel) View() string {
	content := m.form.View()

	if m.err != nil {
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1, 2).Render("Open Estate\n\n" + content)
}
