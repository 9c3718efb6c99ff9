package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/tcnotify/internal/ui/theme"
)

// Styles for the application. Apply replaces them for a given theme.
var (
	TitleStyle         lipgloss.Style
	SubtitleStyle      lipgloss.Style
	SelectedStyle      lipgloss.Style
	NormalStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
	LinkStyle          lipgloss.Style
	SuccessStyle       lipgloss.Style
	FailureStyle       lipgloss.Style
	RunningStyle       lipgloss.Style
	BorderStyle        lipgloss.Style
	FocusedBorderStyle lipgloss.Style
	ModalStyle         lipgloss.Style
)

func init() {
	Apply(theme.Macchiato())
}

// Apply rebuilds every style from t.
func Apply(t theme.Theme) {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(t.Muted)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Text)
	HelpStyle = lipgloss.NewStyle().Foreground(t.Muted)
	LinkStyle = lipgloss.NewStyle().Foreground(t.Link).Underline(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	FailureStyle = lipgloss.NewStyle().Foreground(t.Failure)
	RunningStyle = lipgloss.NewStyle().Foreground(t.Running)

	BorderStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary)

	FocusedBorderStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary)

	ModalStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
}

// PaneStyle returns a style for a pane with optional focus.
func PaneStyle(width, height int, focused bool) lipgloss.Style {
	style := BorderStyle
	if focused {
		style = FocusedBorderStyle
	}
	return style.Width(max(width-2, 0)).Height(max(height-2, 0))
}

// TruncateWithEllipsis shortens s to at most width cells.
func TruncateWithEllipsis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}

	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
