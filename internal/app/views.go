package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/tcnotify/internal/ui"
	"github.com/kyleking/tcnotify/internal/watcher"
)

const (
	statusHeight = 1
	helpHeight   = 1
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	m.live.SetFocused(m.focused == PaneLive)
	m.activity.SetFocused(m.focused == PaneActivity)

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.live.View(), m.activity.View())
	main := lipgloss.JoinVertical(lipgloss.Left, m.viewStatusBar(), body, m.viewHelpBar())

	if m.modalStack.HasActive() {
		return m.modalStack.Render(main)
	}

	return main
}

func (m Model) viewStatusBar() string {
	parts := []string{m.viewState()}

	parts = append(parts, fmt.Sprintf("%d pipelines", len(m.pipelines)))
	if len(m.users) > 0 {
		parts = append(parts, "users: "+strings.Join(m.users, ","))
	}

	if !m.lastCheck.IsZero() {
		parts = append(parts, "checked "+m.lastCheck.Format("15:04:05"))
	}

	left := strings.Join(parts, "  ")
	right := "tcnotify"

	padding := max(m.width-lipgloss.Width(left)-len(right)-2, 1)

	return " " + left + strings.Repeat(" ", padding) + ui.HelpStyle.Render(right) + " "
}

func (m Model) viewState() string {
	switch {
	case m.stalled:
		return ui.FailureStyle.Render("paused (error)")
	case m.state == watcher.StateStopped:
		return ui.SubtitleStyle.Render("stopped")
	case m.state == watcher.StateRunning:
		return ui.RunningStyle.Render("checking")
	default:
		return ui.SuccessStyle.Render("watching")
	}
}

func (m Model) viewHelpBar() string {
	if m.flash != "" {
		return ui.HelpStyle.Render(" " + m.flash)
	}
	return " " + m.help.View(m.keys)
}
