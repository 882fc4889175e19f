package main

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tw93/insight/internal/present"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var defaultKeyMap = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "expand"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Refresh, k.Quit}
}

// collectedMsg carries the state a Load or Refresh finished with.
type collectedMsg struct {
	state present.ViewState
}

type model struct {
	ctx  context.Context
	ctrl *present.Controller
	keys keyMap

	spinner  spinner.Model
	state    present.ViewState
	sections []present.Section
	cursor   int
	width    int
	changed  bool
}

func newModel(ctx context.Context, ctrl *present.Controller) model {
	return model{
		ctx:     ctx,
		ctrl:    ctrl,
		keys:    defaultKeyMap,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(primaryStyle)),
		state:   ctrl.State(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.collect(false))
}

func (m model) collect(refresh bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if refresh {
			return collectedMsg{state: ctrl.Refresh(ctx)}
		}
		return collectedMsg{state: ctrl.Load(ctx)}
	}
}

func (m model) loading() bool {
	_, ok := m.state.(present.Loading)
	return ok
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case collectedMsg:
		m.state = msg.state
		m.sections = m.ctrl.Sections()
		m.changed = m.ctrl.Changed()
		m.cursor = clampCursor(m.cursor, len(m.sections))
		return m, nil
	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.sections))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.sections))
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(m.sections) && m.ctrl.ToggleSection(m.sections[m.cursor].Title) {
			m.sections = m.ctrl.Sections()
		}
	case key.Matches(msg, m.keys.Refresh):
		if m.loading() {
			return m, nil
		}
		m.state = present.Loading{}
		return m, tea.Batch(m.spinner.Tick, m.collect(true))
	}
	return m, nil
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
