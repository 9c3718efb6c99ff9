// Package modal holds the dialogs drawn over the main view.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/kyleking/tcnotify/internal/ui"
)

// Context is a dialog that can be pushed onto a Stack.
type Context interface {
	Update(msg tea.Msg) (Context, tea.Cmd)
	View() string
	IsDone() bool
}

// Stack holds the open dialogs. Only the top one receives input.
type Stack struct {
	dialogs []Context
	width   int
	height  int
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// SetSize records the terminal size used to center dialogs.
func (s *Stack) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Push opens ctx on top of any open dialog.
func (s *Stack) Push(ctx Context) {
	s.dialogs = append(s.dialogs, ctx)
}

// Pop closes and returns the top dialog, or nil when none is open.
func (s *Stack) Pop() Context {
	top := s.Top()
	if top != nil {
		s.dialogs = s.dialogs[:len(s.dialogs)-1]
	}
	return top
}

// Top returns the dialog receiving input, or nil.
func (s *Stack) Top() Context {
	if len(s.dialogs) == 0 {
		return nil
	}
	return s.dialogs[len(s.dialogs)-1]
}

// Len reports the number of open dialogs.
func (s *Stack) Len() int {
	return len(s.dialogs)
}

// HasActive reports whether any dialog is open.
func (s *Stack) HasActive() bool {
	return len(s.dialogs) > 0
}

// Update forwards msg to the top dialog and closes it once it reports done.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	top := s.Top()
	if top == nil {
		return nil
	}

	next, cmd := top.Update(msg)
	s.dialogs[len(s.dialogs)-1] = next

	if next.IsDone() {
		s.Pop()
	}

	return cmd
}

// Render draws the top dialog centered over background.
func (s *Stack) Render(background string) string {
	top := s.Top()
	if top == nil {
		return background
	}

	return overlay(background, ui.ModalStyle.Render(top.View()), s.width, s.height)
}

// overlay splices fg into bg at the center of a width x height area. Both
// strings may carry ANSI styling; cuts are made on cell boundaries.
func overlay(bg, fg string, width, height int) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	top := max((height-len(fgLines))/2, 0)
	left := max((width-lipgloss.Width(fg))/2, 0)

	for i, line := range fgLines {
		row := top + i
		if row >= len(bgLines) {
			break
		}

		under := bgLines[row]
		if w := lipgloss.Width(under); w < left {
			under += strings.Repeat(" ", left-w)
		}

		prefix := ansi.Truncate(under, left, "")
		suffix := ansi.TruncateLeft(under, left+lipgloss.Width(line), "")
		bgLines[row] = prefix + line + suffix
	}

	return strings.Join(bgLines, "\n")
}
