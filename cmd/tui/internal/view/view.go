package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhardin/probata/internal/workflow"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct{}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// EstateReadyMsg is emitted by the setup view once an engine exists, either
// freshly opened or restored from a snapshot.
type EstateReadyMsg struct {
	Engine *workflow.Engine
}
