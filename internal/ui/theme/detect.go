// Package theme provides color theme detection for the TUI.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EnvVar overrides background detection when set to "light" or "dark".
const EnvVar = "TCNOTIFY_THEME"

// Detect returns the theme named by EnvVar, falling back to the terminal
// background.
func Detect() Theme {
	if t, ok := Named(os.Getenv(EnvVar)); ok {
		return t
	}

	if lipgloss.HasDarkBackground() {
		return Macchiato()
	}

	return Latte()
}

// Named resolves a theme by name.
func Named(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latte", "light":
		return Latte(), true
	case "macchiato", "dark":
		return Macchiato(), true
	default:
		return Theme{}, false
	}
}
