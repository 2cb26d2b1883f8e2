package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwhardin/probata/internal/workflow"
)

// AdvanceModel drives the lifecycle forward one stage at a time and renders
// the failed checklist when a transition is refused.
type AdvanceModel struct {
	CommonModel
	eng *workflow.Engine

	last   *workflow.Transition
	err    error
	status string
}

func NewAdvanceModel(eng *workflow.Engine) AdvanceModel {
	return AdvanceModel{eng: eng}
}

func (m AdvanceModel) Title() string     { return "Advance Status" }
func (m AdvanceModel) ShortHelp() string { return "Esc: back | Enter: attempt transition" }

func (m AdvanceModel) Init() tea.Cmd {
	return nil
}

func (m AdvanceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "enter":
		next, ok := m.eng.Estate().Status.Next()
		if !ok {
			m.status = "The estate is closed; there is nothing left to advance."
			return m, nil
		}

		tr, err := m.eng.Advance(next)
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil
		m.last = &tr

		if tr.OK {
			m.status = fmt.Sprintf("Advanced to %s.", tr.To)
		} else {
			m.status = ""
		}
	}

	return m, nil
}

func (m AdvanceModel) View() string {
	est := m.eng.Estate()

	var b strings.Builder

	fmt.Fprintf(&b, "Current status: %s\n", activeStyle(string(est.Status)))

	if next, ok := est.Status.Next(); ok {
		fmt.Fprintf(&b, "Next stage:     %s\n\n", string(next))
		b.WriteString("Press Enter to attempt the transition.\n")
	} else {
		b.WriteString("\nThe administration is complete.\n")
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\nError: %v\n", m.err)
	}

	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(m.status) + "\n")
	}

	if m.last != nil && !m.last.OK {
		fmt.Fprintf(&b, "\nBlocked moving to %s:\n", m.last.To)

		for _, check := range m.last.Failed {
			fmt.Fprintf(&b, "  %s %s\n",
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗"),
				check.Detail,
			)
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
