package panes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/teamcity"
	"github.com/kyleking/tcnotify/internal/ui"
	"github.com/kyleking/tcnotify/internal/watcher"
)

// LiveBuildsModel shows the builds the watcher currently tracks as running.
type LiveBuildsModel struct {
	builds        []teamcity.Build
	selectedIndex int
	width         int
	height        int
	focused       bool
}

// NewLiveBuildsModel creates an empty live builds pane.
func NewLiveBuildsModel() LiveBuildsModel {
	return LiveBuildsModel{}
}

// Apply folds one cycle result into the pane: started builds are appended,
// running builds refresh their entry in place, and run builds are removed.
func (m *LiveBuildsModel) Apply(result watcher.Result) {
	for _, b := range result.Run {
		m.remove(b.ID)
	}

	for _, b := range result.Running {
		if i := m.indexOf(b.ID); i >= 0 {
			m.builds[i] = b
		} else {
			m.builds = append(m.builds, b)
		}
	}

	for _, b := range result.Started {
		if i := m.indexOf(b.ID); i >= 0 {
			m.builds[i] = b
		} else {
			m.builds = append(m.builds, b)
		}
	}

	m.clampSelection()
}

// Reset clears the pane, used when the watcher's tracking is reset.
func (m *LiveBuildsModel) Reset() {
	m.builds = nil
	m.selectedIndex = 0
}

func (m *LiveBuildsModel) remove(id int64) {
	if i := m.indexOf(id); i >= 0 {
		m.builds = append(m.builds[:i], m.builds[i+1:]...)
	}
}

func (m LiveBuildsModel) indexOf(id int64) int {
	for i, b := range m.builds {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (m *LiveBuildsModel) clampSelection() {
	if m.selectedIndex >= len(m.builds) {
		m.selectedIndex = max(len(m.builds)-1, 0)
	}
}

// SetSize updates the pane dimensions.
func (m *LiveBuildsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetFocused updates the focus state.
func (m *LiveBuildsModel) SetFocused(focused bool) {
	m.focused = focused
}

// MoveUp moves selection up.
func (m *LiveBuildsModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down.
func (m *LiveBuildsModel) MoveDown() {
	if m.selectedIndex < len(m.builds)-1 {
		m.selectedIndex++
	}
}

// SelectedBuild returns the currently selected build.
func (m LiveBuildsModel) SelectedBuild() (teamcity.Build, bool) {
	if len(m.builds) == 0 || m.selectedIndex >= len(m.builds) {
		return teamcity.Build{}, false
	}
	return m.builds[m.selectedIndex], true
}

// SelectedIndex returns the current selection index.
func (m LiveBuildsModel) SelectedIndex() int {
	return m.selectedIndex
}

// Count returns the number of running builds shown.
func (m LiveBuildsModel) Count() int {
	return len(m.builds)
}

// Update handles messages for the live builds pane.
func (m LiveBuildsModel) Update(msg tea.Msg) (LiveBuildsModel, tea.Cmd) {
	return m, nil
}

// ViewContent renders the list without the pane border.
func (m LiveBuildsModel) ViewContent() string {
	if len(m.builds) == 0 {
		var content strings.Builder
		content.WriteString(ui.SubtitleStyle.Render("No running builds"))
		content.WriteString("\n\n")
		content.WriteString(ui.HelpStyle.Render("Builds appear here while"))
		content.WriteString("\n")
		content.WriteString(ui.HelpStyle.Render("they are running"))
		return content.String()
	}

	nameWidth := max(m.width-24, 8)

	var content strings.Builder
	for i, b := range m.builds {
		label := fmt.Sprintf("#%s %s", b.Number, b.BuildTypeID)
		line := fmt.Sprintf("%s %s %s",
			ui.PadRight(ui.TruncateWithEllipsis(label, nameWidth), nameWidth),
			ui.PadRight(ui.TruncateWithEllipsis(notify.Username(b), 10), 10),
			progress(b),
		)

		if i == m.selectedIndex {
			content.WriteString(ui.SelectedStyle.Render("> " + line))
		} else {
			content.WriteString(ui.RunningStyle.Render("* ") + ui.NormalStyle.Render(line))
		}

		if i < len(m.builds)-1 {
			content.WriteString("\n")
		}
	}
	return content.String()
}

// View renders the live builds pane with border.
func (m LiveBuildsModel) View() string {
	style := ui.PaneStyle(m.width, m.height, m.focused)
	title := ui.TitleStyle.Render(fmt.Sprintf("Running (%d)", len(m.builds)))
	return style.Render(title + "\n" + m.ViewContent())
}

func progress(b teamcity.Build) string {
	if b.RunningInfo == nil {
		return "  --"
	}
	return fmt.Sprintf("%3d%%", b.RunningInfo.PercentageComplete)
}
