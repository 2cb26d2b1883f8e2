package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/creditor"
	"github.com/mwhardin/probata/internal/distribution"
	"github.com/mwhardin/probata/internal/workflow"
)

type intakeState int

const (
	intakeStateSelect intakeState = iota
	intakeStateForm
)

type intakeKind int

const (
	intakeAsset intakeKind = iota
	intakeClaim
	intakeBeneficiary
)

var intakeLabels = []string{"Asset", "Creditor claim", "Beneficiary"}

// IntakeModel records assets, creditor claims and beneficiaries through
// one form per kind.
type IntakeModel struct {
	CommonModel
	eng *workflow.Engine

	state  intakeState
	kind   intakeKind
	cursor int
	form   *huh.Form

	status string
	err    error

	// Form bindings, shared across the three forms.
	formName     string
	formType     string
	formLocation string
	formAmount   string
	formPriority string
	formShare    string
	formRelation string
}

func NewIntakeModel(eng *workflow.Engine) IntakeModel {
	return IntakeModel{eng: eng}
}

func (m IntakeModel) Title() string { return "Intake" }

func (m IntakeModel) ShortHelp() string {
	if m.state == intakeStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m IntakeModel) Init() tea.Cmd {
	return nil
}

func (m IntakeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case intakeStateSelect:
		return m.updateSelect(msg)
	case intakeStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m IntakeModel) updateSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(intakeLabels)-1 {
			m.cursor++
		}
	case "enter":
		m.kind = intakeKind(m.cursor)
		m.state = intakeStateForm
		m.err = nil
		m.buildForm()

		return m, m.form.Init()
	}

	return m, nil
}

func (m *IntakeModel) buildForm() {
	m.formName = ""
	m.formType = ""
	m.formLocation = ""
	m.formAmount = ""
	m.formPriority = "6"
	m.formShare = ""
	m.formRelation = ""

	amountField := huh.NewInput().
		Key("amount").
		Title("Amount").
		Placeholder("12500.00").
		Value(&m.formAmount).
		Validate(func(s string) error {
			_, err := decimal.NewFromString(strings.TrimSpace(s))
			return err
		})

	switch m.kind {
	case intakeAsset:
		options := make([]huh.Option[string], 0, len(asset.Types()))
		for _, t := range asset.Types() {
			options = append(options, huh.NewOption(string(t), string(t)))
		}

		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Key("description").Title("Description").Value(&m.formName).
					Validate(notEmpty("description")),
				huh.NewSelect[string]().Key("type").Title("Type").Options(options...).Value(&m.formType),
				huh.NewInput().Key("location").Title("Location").Value(&m.formLocation),
				amountField.Title("Estimated value"),
			),
		).WithWidth(50).WithShowHelp(false)

	case intakeClaim:
		options := make([]huh.Option[string], 0, len(creditor.Types()))
		for _, t := range creditor.Types() {
			options = append(options, huh.NewOption(string(t), string(t)))
		}

		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Key("name").Title("Creditor name").Value(&m.formName).
					Validate(notEmpty("creditor name")),
				huh.NewSelect[string]().Key("type").Title("Claim type").Options(options...).Value(&m.formType),
				amountField.Title("Amount claimed"),
				huh.NewInput().Key("priority").Title("Priority (1 first)").Value(&m.formPriority),
			),
		).WithWidth(50).WithShowHelp(false)

	case intakeBeneficiary:
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Key("name").Title("Beneficiary name").Value(&m.formName).
					Validate(notEmpty("beneficiary name")),
				huh.NewInput().Key("relationship").Title("Relationship").Value(&m.formRelation),
				huh.NewInput().Key("share").Title("Share (percent)").Placeholder("50").Value(&m.formShare).
					Validate(func(s string) error {
						_, err := decimal.NewFromString(strings.TrimSpace(s))
						return err
					}),
			),
		).WithWidth(50).WithShowHelp(false)
	}
}

func (m IntakeModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = intakeStateSelect
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.err = m.submit()
	m.state = intakeStateSelect
	m.form = nil

	if m.err == nil {
		m.status = fmt.Sprintf("%s recorded.", intakeLabels[m.kind])
	}

	return m, nil
}

func (m *IntakeModel) submit() error {
	switch m.kind {
	case intakeAsset:
		_, err := m.eng.Assets().AddAsset(asset.CreateParams{
			Type:           asset.Type(m.form.GetString("type")),
			Description:    m.form.GetString("description"),
			Location:       m.form.GetString("location"),
			EstimatedValue: toCents(m.form.GetString("amount")),
		})

		return err

	case intakeClaim:
		priority := 6
		if _, err := fmt.Sscanf(strings.TrimSpace(m.form.GetString("priority")), "%d", &priority); err != nil {
			priority = 6
		}

		_, err := m.eng.Claims().AddCreditor(creditor.CreateParams{
			Type:          creditor.Type(m.form.GetString("type")),
			Name:          m.form.GetString("name"),
			AmountClaimed: toCents(m.form.GetString("amount")),
			Priority:      priority,
		})

		return err

	case intakeBeneficiary:
		share, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("share")))
		if err != nil {
			return err
		}

		_, err = m.eng.Distributions().AddBeneficiary(distribution.CreateParams{
			Name:         m.form.GetString("name"),
			Relationship: m.form.GetString("relationship"),
			Share:        share,
		})

		return err
	}

	return nil
}

func (m IntakeModel) View() string {
	if m.state == intakeStateForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			fmt.Sprintf("Record %s\n\n%s", intakeLabels[m.kind], m.form.View()),
		)
	}

	var b strings.Builder

	b.WriteString("What would you like to record?\n\n")

	for i, label := range intakeLabels {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
			label = activeStyle(label)
		}

		b.WriteString(cursor + label + "\n")
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\nError: %v\n", m.err)
	}

	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.status) + "\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func toCents(s string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
