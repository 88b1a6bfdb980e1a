package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/owned-drop/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	borrowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const eventLogSize = 8

type modelState int

const (
	stateList modelState = iota
	stateAddInput
)

type liveItem struct {
	handle   registry.Handle
	name     string
	borrowed int
}

// eventLog collects lifecycle events. All table mutations happen inside
// Update, so the synchronous observer callback needs no locking.
type eventLog struct {
	lines []string
}

func (l *eventLog) OnGuardEvent(e registry.Event) {
	line := fmt.Sprintf("%s handle=%d type=%d", e.Type, e.Handle, e.TypeID)
	l.lines = append(l.lines, line)
	if len(l.lines) > eventLogSize {
		l.lines = l.lines[len(l.lines)-eventLogSize:]
	}
}

type interactiveModel struct {
	table    *registry.GuardTable
	log      *eventLog
	input    textinput.Model
	err      error
	items    []liveItem
	consumed int
	added    int
	selected int
	state    modelState
}

func newInteractiveModel() *interactiveModel {
	table := registry.NewTable()
	log := &eventLog{}
	table.Subscribe(log)

	ti := textinput.New()
	ti.Placeholder = "resource name"
	ti.Prompt = "name: "
	ti.Width = 30

	return &interactiveModel{
		table: table,
		log:   log,
		input: ti,
		state: stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateAddInput {
			return m.updateAddInput(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.table.Close()
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.items)-1 {
				m.selected++
			}

		case "a":
			m.state = stateAddInput
			m.input.SetValue("")
			m.input.Focus()

		case "d":
			m.removeSelected()

		case "b":
			if it := m.current(); it != nil && m.table.Borrow(it.handle) {
				it.borrowed++
			}

		case "r":
			if it := m.current(); it != nil && it.borrowed > 0 && m.table.ReturnBorrow(it.handle) {
				it.borrowed--
			}

		case "c":
			m.table.Clear()
			m.pruneDead()
		}
	}

	return m, nil
}

func (m *interactiveModel) updateAddInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.input.Value()
		if name == "" {
			name = fmt.Sprintf("scratch-%d", m.added)
		}
		m.added++
		h, err := m.table.Insert(scratchTypeID, scratch{
			name: name,
			buf:  make([]byte, 64),
			sink: func(_ string, buf []byte) { m.consumed += len(buf) },
		})
		if err != nil {
			m.err = err
		} else {
			m.items = append(m.items, liveItem{handle: h, name: name})
		}
		m.state = stateList
		return m, nil

	case "esc":
		m.state = stateList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) current() *liveItem {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}

func (m *interactiveModel) removeSelected() {
	it := m.current()
	if it == nil {
		return
	}
	if err := m.table.Remove(it.handle); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.items = append(m.items[:m.selected], m.items[m.selected+1:]...)
	if m.selected >= len(m.items) && m.selected > 0 {
		m.selected--
	}
}

func (m *interactiveModel) pruneDead() {
	live := m.items[:0]
	for _, it := range m.items {
		if _, ok := m.table.Get(it.handle); ok {
			live = append(live, it)
		}
	}
	m.items = live
	if m.selected >= len(m.items) {
		m.selected = 0
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Guard Monitor"))
	b.WriteString(fmt.Sprintf("  live: %d  consumed: %d bytes\n\n", m.table.Len(), m.consumed))

	if m.state == stateAddInput {
		b.WriteString("Add a resource:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter add • esc back"))
		return b.String()
	}

	if len(m.items) == 0 {
		b.WriteString(helpStyle.Render("no live resources; press a to add one"))
		b.WriteString("\n")
	}
	for i, it := range m.items {
		line := fmt.Sprintf("%s %s", handleStyle.Render(fmt.Sprintf("#%d", it.handle)), it.name)
		if it.borrowed > 0 {
			line += " " + borrowStyle.Render(fmt.Sprintf("(%d borrows)", it.borrowed))
		}
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\nRecent events:\n")
	for _, line := range m.log.lines {
		b.WriteString("  " + eventStyle.Render(line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • a add • d drop • b borrow • r return • c clear • q quit"))

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
