package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwhardin/probata/internal/importer"
	"github.com/mwhardin/probata/internal/workflow"
)

type importState int

const (
	importStateFilePick importState = iota
	importStateResult
)

// ImportModel loads an inventory spreadsheet into the asset ledger.
type ImportModel struct {
	CommonModel
	eng           *workflow.Engine
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	status string
	err    error
}

func NewImportModel(eng *workflow.Engine, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		eng:           eng,
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Inventory" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back | Enter: import another"
	}

	return "Esc: back | Enter: select file"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == importStateResult && msg.Type == tea.KeyEnter {
			m.state = importStateFilePick
			m.err = nil
			m.status = ""

			return m, m.filePicker.Init()
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d assets from %s.", msg.count, msg.path)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1, 2).Render(fmt.Sprintf("Import failed: %v", m.err))
		}

		return lipgloss.NewStyle().Padding(1, 2).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		"Select an inventory CSV file:\n\n" + m.filePicker.View(),
	)
}

type importResultMsg struct {
	count int
	path  string
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(importer.FormatInventory, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		added, err := m.eng.Assets().AddBatch(params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(added), path: path}
	}
}
