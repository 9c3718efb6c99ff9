package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/ui/modal"
	"github.com/kyleking/tcnotify/internal/watcher"
)

type actionDoneMsg struct {
	text string
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modalStack.Push(modal.NewHelpModal())
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.focused = (m.focused + 1) % paneCount
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.focused = (m.focused + paneCount - 1) % paneCount
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.handleUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.handleDown()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.activity.SetFilter("")
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		return m.openFilterModal()

	case key.Matches(msg, m.keys.Open):
		return m.openSelected()

	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()

	case key.Matches(msg, m.keys.Toggle):
		return m.toggleWatching()

	case key.Matches(msg, m.keys.Clear):
		m.activity.Clear()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleUp() {
	switch m.focused {
	case PaneLive:
		m.live.MoveUp()
	case PaneActivity:
		m.activity.MoveUp()
	}
}

func (m *Model) handleDown() {
	switch m.focused {
	case PaneLive:
		m.live.MoveDown()
	case PaneActivity:
		m.activity.MoveDown()
	}
}

func (m Model) handleStateChange(msg StateChangedMsg) (tea.Model, tea.Cmd) {
	m.state = msg.Change.To

	if msg.Change.To == watcher.StateStopped {
		m.stalled = false
	}

	if n, ok := notify.FromStateChange(msg.Change, m.now()); ok {
		m.activity.Push(n)
	}

	return m, m.events.Next()
}

func (m Model) handleBuildCheck(msg BuildCheckMsg) (tea.Model, tea.Cmd) {
	m.checks++
	m.lastCheck = m.now()
	m.stalled = false

	m.live.Apply(msg.Result)
	if m.history != nil {
		for _, b := range msg.Result.Run {
			m.history.Record(b, m.lastCheck)
		}
	}
	m.activity.Push(notify.FromResult(msg.Result, m.showRunning, m.lastCheck)...)

	return m, m.events.Next()
}

func (m Model) handleCycleError(msg CycleErrorMsg) (tea.Model, tea.Cmd) {
	m.stalled = true

	n := notify.FromError(msg.Err, m.now())
	m.activity.Push(n)

	errModal := modal.NewErrorModal(n.Title, msg.Err.Error()).
		WithHint("Watching is paused. Press s to resume.")
	m.modalStack.Push(errModal)

	return m, m.events.Next()
}

func (m Model) handleFilterResult(msg modal.FilterResultMsg) (tea.Model, tea.Cmd) {
	if !msg.Cancelled {
		m.activity.SetFilter(msg.Value)
		m.focused = PaneActivity
	}
	return m, nil
}

func (m Model) openFilterModal() (tea.Model, tea.Cmd) {
	filterModal := modal.NewFilterModal("Filter Activity", m.activity.Lines(), m.activity.Filter())
	m.modalStack.Push(filterModal)
	return m, nil
}

func (m Model) toggleWatching() (tea.Model, tea.Cmd) {
	switch {
	case m.stalled:
		m.stalled = false
		return m, m.restartCmd()
	case m.state == watcher.StateStopped:
		return m, m.startCmd()
	default:
		return m, m.stopCmd()
	}
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	url, ok := m.selectedURL()
	if !ok {
		return m, nil
	}

	open := m.openURL
	return m, func() tea.Msg {
		if err := open(url); err != nil {
			return actionDoneMsg{text: fmt.Sprintf("open failed: %v", err)}
		}
		return actionDoneMsg{text: "opened " + url}
	}
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	url, ok := m.selectedURL()
	if !ok {
		return m, nil
	}

	if err := m.copyText(url); err != nil {
		m.flash = fmt.Sprintf("copy failed: %v", err)
		return m, nil
	}

	m.flash = "copied " + url
	return m, nil
}
