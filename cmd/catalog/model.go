package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-examples/internal/types"
)

// Application states.
const (
	StateRootInput = iota
	StateBarTypeSelect
	StateBarsDisplay
)

// Model is the main Bubble Tea model for the catalog browser.
type Model struct {
	state       int
	rootInput   textinput.Model
	barTypeList list.Model
	barsTable   table.Model
	root        string
	barTypes    []BarTypeSummary
	barType     string
	instrument  *types.Instrument
	bars        []types.Bar
	err         error
	width       int
	height      int
}

// NewModel creates a new Model. A non-empty root is opened as soon as the program starts.
func NewModel(root string) Model {
	return Model{
		state:       StateRootInput,
		rootInput:   NewRootInput(root),
		barTypeList: NewBarTypeList(nil),
		barsTable:   NewBarsTable(),
		root:        root,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.root != "" {
		return loadCatalog(m.root)
	}

	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateRootInput {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.barTypeList.SetSize(msg.Width, msg.Height-4)
		m.barsTable.SetWidth(msg.Width)
		m.barsTable.SetHeight(msg.Height - 8)
		return m, nil

	case CatalogLoadedMsg:
		m.err = nil
		m.root = msg.Root
		m.barTypes = msg.BarTypes
		m.barTypeList = NewBarTypeList(msg.BarTypes)
		m.barTypeList.SetSize(m.width, m.height-4)
		m.rootInput.Blur()
		m.state = StateBarTypeSelect
		return m, nil

	case BarsLoadedMsg:
		m.err = nil
		m.barType = msg.BarType
		m.instrument = msg.Instrument
		m.bars = msg.Bars
		m.barsTable = UpdateTableRows(m.barsTable, msg.Bars)
		m.state = StateBarsDisplay
		return m, nil

	case CatalogErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateRootInput:
		return m.updateRootInput(msg)
	case StateBarTypeSelect:
		return m.updateBarTypeSelect(msg)
	case StateBarsDisplay:
		return m.updateBarsDisplay(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	m.err = nil

	switch m.state {
	case StateBarTypeSelect:
		m.state = StateRootInput
		m.rootInput.Focus()
		return m, textinput.Blink
	case StateBarsDisplay:
		m.bars = nil
		m.instrument = nil
		m.barType = ""
		m.barsTable = UpdateTableRows(m.barsTable, nil)
		m.state = StateBarTypeSelect
	}

	return m, nil
}

func (m Model) updateRootInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		root := strings.TrimSpace(m.rootInput.Value())
		if root != "" {
			return m, loadCatalog(root)
		}
	}

	var cmd tea.Cmd
	m.rootInput, cmd = m.rootInput.Update(msg)
	return m, cmd
}

func (m Model) updateBarTypeSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.barTypeList.SelectedItem().(listItem); ok {
			return m, loadBars(m.root, item.name)
		}
	}

	var cmd tea.Cmd
	m.barTypeList, cmd = m.barTypeList.Update(msg)
	return m, cmd
}

func (m Model) updateBarsDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.barsTable, cmd = m.barsTable.Update(msg)
	return m, cmd
}

// loadCatalog returns a command that reads the bar types of the catalog at root.
func loadCatalog(root string) tea.Cmd {
	return func() tea.Msg {
		summaries, err := ReadBarTypes(root)
		if err != nil {
			return CatalogErrorMsg{Err: err}
		}

		return CatalogLoadedMsg{Root: root, BarTypes: summaries}
	}
}

// loadBars returns a command that reads the bars of one bar type.
func loadBars(root string, barType string) tea.Cmd {
	return func() tea.Msg {
		msg, err := ReadBars(root, barType)
		if err != nil {
			return CatalogErrorMsg{Err: err}
		}

		return msg
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateRootInput:
		s.WriteString(TitleStyle.Render("Argo Examples - Data Catalog"))
		s.WriteString("\n\n")
		s.WriteString("Enter the catalog directory:\n\n")
		s.WriteString(m.rootInput.View())
		s.WriteString("\n\n")
		m.writeError(&s)
		s.WriteString(HelpStyle.Render("Press Enter to open, ctrl+c to quit"))

	case StateBarTypeSelect:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Catalog %s", m.root)))
		s.WriteString("\n\n")
		m.writeError(&s)

		if len(m.barTypes) == 0 {
			s.WriteString("The catalog holds no bars.\n")
		} else {
			s.WriteString(m.barTypeList.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, Esc to go back, q to quit"))

	case StateBarsDisplay:
		s.WriteString(TitleStyle.Render(m.barType))
		s.WriteString("\n")
		s.WriteString(InstrumentSummary(m.instrument))
		s.WriteString("\n\n")
		m.writeError(&s)
		s.WriteString(m.barsTable.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render(fmt.Sprintf("q: quit | Esc: back | %d bars", len(m.bars))))
	}

	return s.String()
}

func (m Model) writeError(s *strings.Builder) {
	if m.err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}
}
