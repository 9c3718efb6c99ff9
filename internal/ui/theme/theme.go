package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines semantic color roles for the UI.
type Theme struct {
	Primary   lipgloss.Color // Mauve - titles, focused borders
	Secondary lipgloss.Color // Surface2 - unfocused borders
	Accent    lipgloss.Color // Teal - selected rows
	Muted     lipgloss.Color // Overlay2 - subtitles, help text
	Text      lipgloss.Color // Text - normal text
	Success   lipgloss.Color // Green - finished successfully
	Failure   lipgloss.Color // Red - failed builds, errors
	Running   lipgloss.Color // Yellow - builds in progress
	Link      lipgloss.Color // Blue - URLs
}

// Latte returns the Catppuccin Latte (light) theme.
func Latte() Theme {
	return Theme{
		Primary:   lipgloss.Color("#8839ef"),
		Secondary: lipgloss.Color("#acb0be"),
		Accent:    lipgloss.Color("#179299"),
		Muted:     lipgloss.Color("#7c7f93"),
		Text:      lipgloss.Color("#4c4f69"),
		Success:   lipgloss.Color("#40a02b"),
		Failure:   lipgloss.Color("#d20f39"),
		Running:   lipgloss.Color("#df8e1d"),
		Link:      lipgloss.Color("#1e66f5"),
	}
}

// Macchiato returns the Catppuccin Macchiato (medium-dark) theme.
func Macchiato() Theme {
	return Theme{
		Primary:   lipgloss.Color("#c6a0f6"),
		Secondary: lipgloss.Color("#5b6078"),
		Accent:    lipgloss.Color("#8bd5ca"),
		Muted:     lipgloss.Color("#939ab7"),
		Text:      lipgloss.Color("#cad3f5"),
		Success:   lipgloss.Color("#a6da95"),
		Failure:   lipgloss.Color("#ed8796"),
		Running:   lipgloss.Color("#eed49f"),
		Link:      lipgloss.Color("#8aadf4"),
	}
}
