package app

import "github.com/kyleking/tcnotify/internal/teamcity"

// SelectedBuild returns the build under the cursor in the focused pane.
func (m Model) SelectedBuild() (teamcity.Build, bool) {
	switch m.focused {
	case PaneLive:
		return m.live.SelectedBuild()
	case PaneActivity:
		n, ok := m.activity.SelectedEntry()
		if !ok || n.Build == nil {
			return teamcity.Build{}, false
		}
		return *n.Build, true
	}
	return teamcity.Build{}, false
}

func (m Model) selectedURL() (string, bool) {
	b, ok := m.SelectedBuild()
	if !ok || b.WebURL == "" {
		return "", false
	}
	return b.WebURL, true
}

// layout sizes the panes from the window dimensions.
func (m *Model) layout() {
	bodyHeight := max(m.height-statusHeight-helpHeight, 3)
	leftWidth := (m.width * 2) / 5

	m.live.SetSize(leftWidth, bodyHeight)
	m.activity.SetSize(m.width-leftWidth, bodyHeight)
}
