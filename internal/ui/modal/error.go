package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/ui"
)

// ErrorModal displays a failed build check until dismissed.
type ErrorModal struct {
	title   string
	message string
	hint    string
	done    bool
	keys    errorKeyMap
}

type errorKeyMap struct {
	Close key.Binding
}

func defaultErrorKeyMap() errorKeyMap {
	return errorKeyMap{
		Close: key.NewBinding(key.WithKeys("esc", "q", "enter")),
	}
}

// NewErrorModal creates a new error modal with a title and message.
func NewErrorModal(title, message string) *ErrorModal {
	return &ErrorModal{
		title:   title,
		message: message,
		keys:    defaultErrorKeyMap(),
	}
}

// WithHint adds a muted line under the message, e.g. how to recover.
func (m *ErrorModal) WithHint(hint string) *ErrorModal {
	m.hint = hint
	return m
}

// Update handles input for the error modal.
func (m *ErrorModal) Update(msg tea.Msg) (Context, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Close) {
			m.done = true
		}
	}

	return m, nil
}

// View renders the error modal.
func (m *ErrorModal) View() string {
	var s strings.Builder

	s.WriteString(ui.FailureStyle.Bold(true).Render(m.title))
	s.WriteString("\n\n")

	for _, line := range strings.Split(m.message, "\n") {
		s.WriteString(ui.FailureStyle.Render(line))
		s.WriteString("\n")
	}

	if m.hint != "" {
		s.WriteString("\n")
		s.WriteString(ui.SubtitleStyle.Render(m.hint))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(ui.HelpStyle.Render("[Enter/Esc] Dismiss"))

	return s.String()
}

// IsDone returns true if the modal is finished.
func (m *ErrorModal) IsDone() bool {
	return m.done
}
