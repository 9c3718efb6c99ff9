package panes

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/ui"
)

// MaxActivity bounds the activity feed; older entries are dropped.
const MaxActivity = 200

func formatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}

// ActivityModel is the notification feed, newest first, with an optional
// fuzzy filter over the rendered lines.
type ActivityModel struct {
	entries       []notify.Notification
	visible       []int // indexes into entries after filtering
	filter        string
	selectedIndex int
	focused       bool
	width         int
	height        int
	now           func() time.Time
}

// NewActivityModel creates an empty activity feed.
func NewActivityModel() ActivityModel {
	return ActivityModel{now: time.Now}
}

// Push prepends notifications in the order given, so the first of ns ends
// up directly above the previous newest entry.
func (m *ActivityModel) Push(ns ...notify.Notification) {
	if len(ns) == 0 {
		return
	}

	entries := make([]notify.Notification, 0, len(ns)+len(m.entries))
	entries = append(entries, ns...)
	entries = append(entries, m.entries...)
	if len(entries) > MaxActivity {
		entries = entries[:MaxActivity]
	}

	m.entries = entries
	m.refilter()
}

// Clear drops every entry.
func (m *ActivityModel) Clear() {
	m.entries = nil
	m.refilter()
}

// SetFilter applies a fuzzy filter; "" shows everything.
func (m *ActivityModel) SetFilter(filter string) {
	m.filter = filter
	m.refilter()
}

// Filter returns the active filter.
func (m ActivityModel) Filter() string {
	return m.filter
}

// Lines returns the plain text of every entry, used as the filter corpus.
func (m ActivityModel) Lines() []string {
	lines := make([]string, len(m.entries))
	for i, n := range m.entries {
		lines[i] = n.Body
	}
	return lines
}

func (m *ActivityModel) refilter() {
	m.visible = ui.FuzzyIndexes(m.filter, m.Lines())
	if m.selectedIndex >= len(m.visible) {
		m.selectedIndex = max(len(m.visible)-1, 0)
	}
}

// SetSize updates the pane dimensions.
func (m *ActivityModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetFocused updates the focus state.
func (m *ActivityModel) SetFocused(focused bool) {
	m.focused = focused
}

// MoveUp moves selection up.
func (m *ActivityModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down.
func (m *ActivityModel) MoveDown() {
	if m.selectedIndex < len(m.visible)-1 {
		m.selectedIndex++
	}
}

// Len returns the number of visible entries.
func (m ActivityModel) Len() int {
	return len(m.visible)
}

// Total returns the number of entries regardless of filter.
func (m ActivityModel) Total() int {
	return len(m.entries)
}

// SelectedEntry returns the currently selected notification.
func (m ActivityModel) SelectedEntry() (notify.Notification, bool) {
	if len(m.visible) == 0 || m.selectedIndex >= len(m.visible) {
		return notify.Notification{}, false
	}
	return m.entries[m.visible[m.selectedIndex]], true
}

// View renders the activity pane.
func (m ActivityModel) View() string {
	style := ui.PaneStyle(m.width, m.height, m.focused)

	title := "Activity"
	if m.filter != "" {
		title = fmt.Sprintf("Activity (/%s %d/%d)", m.filter, len(m.visible), len(m.entries))
	}

	return style.Render(ui.TitleStyle.Render(title) + "\n" + m.ViewContent())
}

// ViewContent renders just the list content without the pane border.
func (m ActivityModel) ViewContent() string {
	if len(m.visible) == 0 {
		if len(m.entries) > 0 {
			return ui.SubtitleStyle.Render("No entries match the filter")
		}
		return ui.SubtitleStyle.Render("Waiting for builds...")
	}

	now := m.now()
	bodyWidth := max(m.width-16, 10)

	rows := len(m.visible)
	if m.height > 3 {
		rows = min(rows, m.height-3)
	}

	// keep the selection on screen
	offset := 0
	if m.selectedIndex >= rows {
		offset = m.selectedIndex - rows + 1
	}

	var content strings.Builder
	for i := offset; i < offset+rows && i < len(m.visible); i++ {
		n := m.entries[m.visible[i]]

		indicator := "  "
		if i == m.selectedIndex {
			indicator = "> "
		}

		row := fmt.Sprintf("%s%s %s  %s",
			indicator,
			kindStyle(n.Kind).Render(kindIcon(n.Kind)),
			ui.PadRight(ui.TruncateWithEllipsis(n.Body, bodyWidth), bodyWidth),
			formatTimeAgo(n.At, now),
		)

		if i == m.selectedIndex {
			content.WriteString(ui.SelectedStyle.Render(row))
		} else {
			content.WriteString(ui.NormalStyle.Render(row))
		}

		if i < offset+rows-1 && i < len(m.visible)-1 {
			content.WriteString("\n")
		}
	}

	return content.String()
}

func kindIcon(k notify.Kind) string {
	switch k {
	case notify.KindStarted:
		return ">"
	case notify.KindRunning:
		return "*"
	case notify.KindSuccess:
		return "+"
	case notify.KindFailure:
		return "x"
	case notify.KindError:
		return "!"
	default:
		return "-"
	}
}

func kindStyle(k notify.Kind) lipgloss.Style {
	switch k {
	case notify.KindSuccess:
		return ui.SuccessStyle
	case notify.KindFailure, notify.KindError:
		return ui.FailureStyle
	case notify.KindStarted, notify.KindRunning:
		return ui.RunningStyle
	default:
		return ui.SubtitleStyle
	}
}
