package modal

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestStack_PushPop(t *testing.T) {
	stack := NewStack()

	if stack.HasActive() {
		t.Error("expected empty stack")
	}

	stack.Push(NewHelpModal())

	if !stack.HasActive() {
		t.Error("expected stack to have active modal")
	}

	if popped := stack.Pop(); popped == nil {
		t.Error("expected non-nil modal")
	}

	if stack.HasActive() {
		t.Error("expected empty stack after pop")
	}

	if stack.Pop() != nil {
		t.Error("expected nil pop on empty stack")
	}
}

func TestStack_Top(t *testing.T) {
	stack := NewStack()

	if stack.Top() != nil {
		t.Error("expected nil top on empty stack")
	}

	stack.Push(NewHelpModal())
	stack.Push(NewErrorModal("Second", "msg"))

	if _, ok := stack.Top().(*ErrorModal); !ok {
		t.Errorf("expected error modal on top, got %T", stack.Top())
	}
}

func TestStack_UpdatePopsDoneModal(t *testing.T) {
	stack := NewStack()
	stack.Push(NewHelpModal())

	stack.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if stack.HasActive() {
		t.Error("expected help modal to close on esc")
	}
}

func TestStack_RenderOverlaysBackground(t *testing.T) {
	stack := NewStack()
	stack.SetSize(80, 30)

	background := strings.Repeat(strings.Repeat(".", 80)+"\n", 29) + strings.Repeat(".", 80)
	if got := stack.Render(background); got != background {
		t.Error("expected background unchanged without modal")
	}

	stack.Push(NewErrorModal("Oops", "bad"))
	got := stack.Render(background)
	if !strings.Contains(got, "Oops") {
		t.Error("expected modal content in render")
	}
	if len(strings.Split(got, "\n")) != 30 {
		t.Error("expected render to keep background height")
	}
}

func TestFilterModal_Matches(t *testing.T) {
	items := []string{"Build Started: 101 by alice on branch main", "Build finished SUCCESS : 99 by bob on branch release"}
	m := NewFilterModal("Filter activity", items, "")

	if len(m.Matches()) != 2 {
		t.Fatalf("expected all items to match empty query, got %d", len(m.Matches()))
	}

	for _, r := range "bob" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	if len(m.Matches()) != 1 {
		t.Fatalf("expected one match for bob, got %v", m.Matches())
	}
	if !strings.Contains(m.View(), "Matches: 1/2") {
		t.Error("expected match count in view")
	}
}

func TestFilterModal_EnterAndEscape(t *testing.T) {
	m := NewFilterModal("Filter", nil, "main")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.IsDone() || cmd == nil {
		t.Fatal("expected enter to finish with a command")
	}
	res, ok := cmd().(FilterResultMsg)
	if !ok || res.Value != "main" || res.Cancelled {
		t.Errorf("unexpected result %+v", res)
	}

	m = NewFilterModal("Filter", nil, "")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	res = cmd().(FilterResultMsg)
	if !res.Cancelled {
		t.Error("expected escape to cancel")
	}
}

func TestHelpModal_ListsBuildShortcuts(t *testing.T) {
	view := NewHelpModal().View()

	for _, want := range []string{"Open selected build", "Copy selected build URL", "Start / stop watching"} {
		if !strings.Contains(view, want) {
			t.Errorf("help should mention %q", want)
		}
	}
}

func TestStack_Len(t *testing.T) {
	stack := NewStack()
	stack.Push(NewHelpModal())
	stack.Push(NewErrorModal("Oops", "msg"))

	if stack.Len() != 2 {
		t.Errorf("expected 2 dialogs, got %d", stack.Len())
	}

	stack.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if stack.Len() != 1 {
		t.Errorf("expected error modal closed, got %d dialogs", stack.Len())
	}
	if _, ok := stack.Top().(*HelpModal); !ok {
		t.Errorf("expected help modal underneath, got %T", stack.Top())
	}
}

func TestOverlay_KeepsBackgroundAroundDialog(t *testing.T) {
	bg := strings.Join([]string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}, "\n")

	got := overlay(bg, "XX", 10, 3)
	lines := strings.Split(got, "\n")

	if lines[0] != "aaaaaaaaaa" || lines[2] != "cccccccccc" {
		t.Errorf("rows outside the dialog changed: %q", lines)
	}
	if lines[1] != "bbbbXXbbbb" {
		t.Errorf("expected dialog centered in row 1, got %q", lines[1])
	}
}

func TestOverlay_PadsShortLines(t *testing.T) {
	got := overlay("ab", "XX", 10, 1)

	if got != "ab  XX" {
		t.Errorf("expected padded line, got %q", got)
	}
}

func TestOverlay_StyledBackground(t *testing.T) {
	bg := "\x1b[31mredredredr\x1b[0m"

	got := overlay(bg, "XX", 10, 1)

	if !strings.Contains(got, "XX") {
		t.Fatalf("dialog missing: %q", got)
	}
	if w := lipgloss.Width(got); w != 10 {
		t.Errorf("expected width 10, got %d (%q)", w, got)
	}
}
