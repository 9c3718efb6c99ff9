package modal

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/ui"
)

// HelpModal displays keyboard shortcuts and help.
type HelpModal struct {
	done bool
	keys helpKeyMap
}

type helpKeyMap struct {
	Close key.Binding
}

func defaultHelpKeyMap() helpKeyMap {
	return helpKeyMap{
		Close: key.NewBinding(key.WithKeys("esc", "?", "q")),
	}
}

// NewHelpModal creates a new help modal.
func NewHelpModal() *HelpModal {
	return &HelpModal{
		keys: defaultHelpKeyMap(),
	}
}

// Update handles input for the help modal.
func (m *HelpModal) Update(msg tea.Msg) (Context, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Close) {
			m.done = true
		}
	}

	return m, nil
}

// View renders the help modal.
func (m *HelpModal) View() string {
	return ui.TitleStyle.Render("Keyboard Shortcuts") + `

` + ui.SubtitleStyle.Render("Navigation") + `
  Tab / Shift+Tab    Switch between running builds and activity
  ↑/k, ↓/j           Move selection
  /                  Filter activity
  Esc                Clear filter / close modal

` + ui.SubtitleStyle.Render("Builds") + `
  o                  Open selected build in browser
  y                  Copy selected build URL
  s                  Start / stop watching
  c                  Clear activity

` + ui.SubtitleStyle.Render("Application") + `
  ?                  Show this help
  q, Ctrl+C          Quit

` + ui.HelpStyle.Render("Press ? or Esc to close")
}

// IsDone returns true if the modal is finished.
func (m *HelpModal) IsDone() bool {
	return m.done
}
