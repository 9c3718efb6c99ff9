package modal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/ui"
)

// FilterResultMsg carries the query chosen in a FilterModal.
type FilterResultMsg struct {
	Value     string
	Cancelled bool
}

const (
	maxPreview   = 5
	previewWidth = 60
)

var (
	applyKey  = key.NewBinding(key.WithKeys("enter"))
	cancelKey = key.NewBinding(key.WithKeys("esc"))
)

// FilterModal edits the activity filter, previewing the first matching
// lines as the query changes.
type FilterModal struct {
	title   string
	input   textinput.Model
	lines   []string
	matches []string
	done    bool
}

// NewFilterModal opens a filter over lines, starting from current.
func NewFilterModal(title string, lines []string, current string) *FilterModal {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "build number, user, branch..."
	in.CharLimit = 80
	in.Width = 40
	in.SetValue(current)
	in.Focus()

	m := &FilterModal{title: title, input: in, lines: lines}
	m.matches = ui.ApplyFuzzyFilter(current, lines)

	return m
}

// Update applies the query on enter and cancels on esc. Any other key edits
// the query.
func (m *FilterModal) Update(msg tea.Msg) (Context, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, applyKey):
			m.done = true
			value := m.input.Value()
			return m, func() tea.Msg { return FilterResultMsg{Value: value} }
		case key.Matches(keyMsg, cancelKey):
			m.done = true
			return m, func() tea.Msg { return FilterResultMsg{Cancelled: true} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.matches = ui.ApplyFuzzyFilter(m.input.Value(), m.lines)

	return m, cmd
}

// View renders the query, the match count and a short preview.
func (m *FilterModal) View() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render(m.title) + "\n\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(ui.SubtitleStyle.Render(fmt.Sprintf("Matches: %d/%d", len(m.matches), len(m.lines))) + "\n\n")

	for _, line := range m.matches[:min(len(m.matches), maxPreview)] {
		b.WriteString(ui.NormalStyle.Render("  "+ui.TruncateWithEllipsis(line, previewWidth)) + "\n")
	}
	if extra := len(m.matches) - maxPreview; extra > 0 {
		b.WriteString(ui.SubtitleStyle.Render(fmt.Sprintf("  ...and %d more", extra)) + "\n")
	}

	b.WriteString("\n" + ui.HelpStyle.Render("[enter] apply  [esc] cancel"))

	return b.String()
}

// IsDone reports whether the query was applied or cancelled.
func (m *FilterModal) IsDone() bool {
	return m.done
}

// Matches returns the lines matching the current query.
func (m *FilterModal) Matches() []string {
	return m.matches
}
