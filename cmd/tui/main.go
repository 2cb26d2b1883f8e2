package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/mwhardin/probata/cmd/tui/internal/view"
	"github.com/mwhardin/probata/internal/config"
	"github.com/mwhardin/probata/internal/importer"
	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"
	"github.com/mwhardin/probata/internal/workflow/store"
)

type model struct {
	table         *rules.Table
	importService *importer.Service
	snapshots     *store.Store

	eng *workflow.Engine

	currentView View
	status      string

	setupView     view.SetupModel
	overviewView  view.OverviewModel
	deadlinesView view.DeadlinesModel
	advanceView   view.AdvanceModel
	intakeView    view.IntakeModel
	importView    view.ImportModel
}

type View int

const (
	ViewSetup     View = 0
	ViewMenu      View = 1
	ViewOverview  View = 2
	ViewDeadlines View = 3
	ViewAdvance   View = 4
	ViewIntake    View = 5
	ViewImport    View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	table, err := rules.LoadFile(cfg.Rules.Path)
	if err != nil {
		slog.Error("failed to load jurisdiction rules", "path", cfg.Rules.Path, "error", err)
		os.Exit(1)
	}

	m := model{
		table:         table,
		importService: importer.NewService(),
		snapshots:     store.New(cfg.Snapshots.Dir),
		currentView:   ViewSetup,
		setupView:     view.NewSetupModel(table),
	}

	// Resume the most recently saved estate if one exists.
	if paths, err := m.snapshots.List(); err == nil && len(paths) > 0 {
		if eng, err := m.snapshots.Load(paths[len(paths)-1], table); err == nil {
			m.adopt(eng)
			m.status = fmt.Sprintf("Restored estate of %s.", eng.Estate().DecedentName)
		}
	}

	return m
}

func (m *model) adopt(eng *workflow.Engine) {
	m.eng = eng
	m.currentView = ViewMenu
	m.overviewView = view.NewOverviewModel(eng)
	m.deadlinesView = view.NewDeadlinesModel(eng)
	m.advanceView = view.NewAdvanceModel(eng)
	m.intakeView = view.NewIntakeModel(eng)
	m.importView = view.NewImportModel(eng, m.importService)
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewSetup {
		return m.setupView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.EstateReadyMsg:
		m.adopt(msg.Engine)
		m.status = ""

		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOverview
				m.overviewView = view.NewOverviewModel(m.eng)

				return m, m.overviewView.Init()
			case "2":
				m.currentView = ViewDeadlines
				m.deadlinesView = view.NewDeadlinesModel(m.eng)

				return m, m.deadlinesView.Init()
			case "3":
				m.currentView = ViewAdvance
				m.advanceView = view.NewAdvanceModel(m.eng)

				return m, m.advanceView.Init()
			case "4":
				m.currentView = ViewIntake
				m.intakeView = view.NewIntakeModel(m.eng)

				return m, m.intakeView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.eng, m.importService)

				return m, m.importView.Init()
			case "s":
				path, err := m.snapshots.Save(m.eng)
				if err != nil {
					m.status = fmt.Sprintf("Save failed: %v", err)
				} else {
					m.status = "Saved to " + path
				}

				return m, nil
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSetup:
		var newModel tea.Model
		newModel, cmd = m.setupView.Update(msg)
		m.setupView = newModel.(view.SetupModel)
	case ViewOverview:
		var newModel tea.Model
		newModel, cmd = m.overviewView.Update(msg)
		m.overviewView = newModel.(view.OverviewModel)
	case ViewDeadlines:
		var newModel tea.Model
		newModel, cmd = m.deadlinesView.Update(msg)
		m.deadlinesView = newModel.(view.DeadlinesModel)
	case ViewAdvance:
		var newModel tea.Model
		newModel, cmd = m.advanceView.Update(msg)
		m.advanceView = newModel.(view.AdvanceModel)
	case ViewIntake:
		var newModel tea.Model
		newModel, cmd = m.intakeView.Update(msg)
		m.intakeView = newModel.(view.IntakeModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewSetup:
		return m.setupView.View()
	case ViewMenu:
		menu := fmt.Sprintf(
			"Probata — Estate of %s\n\n"+
				"1. Estate Overview\n"+
				"2. Deadlines\n"+
				"3. Advance Status\n"+
				"4. Intake\n"+
				"5. Import Inventory CSV\n\n"+
				"s. Save snapshot\n"+
				"q. Quit",
			m.eng.Estate().DecedentName,
		)

		if m.status != "" {
			menu += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewOverview:
		return m.overviewView.View()
	case ViewDeadlines:
		return m.deadlinesView.View()
	case ViewAdvance:
		return m.advanceView.View()
	case ViewIntake:
		return m.intakeView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
