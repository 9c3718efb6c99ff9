package panes

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/teamcity"
	"github.com/kyleking/tcnotify/internal/testutil"
	"github.com/kyleking/tcnotify/internal/watcher"
)

func TestLiveBuildsModel_Apply(t *testing.T) {
	m := NewLiveBuildsModel()

	m.Apply(watcher.Result{Started: []teamcity.Build{testutil.RunningBuild(1), testutil.RunningBuild(2)}})
	testutil.AssertEqual(t, m.Count(), 2, "after started")

	updated := testutil.RunningBuild(1)
	updated.RunningInfo = &teamcity.RunningInfo{PercentageComplete: 50}
	m.Apply(watcher.Result{Running: []teamcity.Build{updated, testutil.RunningBuild(2)}})
	testutil.AssertEqual(t, m.Count(), 2, "after running")

	b, ok := m.SelectedBuild()
	testutil.AssertTrue(t, ok, "selection")
	testutil.AssertEqual(t, b.RunningInfo.PercentageComplete, 50, "refreshed in place")

	m.Apply(watcher.Result{Run: []teamcity.Build{testutil.FinishedBuild(1)}})
	testutil.AssertEqual(t, m.Count(), 1, "after run")

	b, _ = m.SelectedBuild()
	testutil.AssertEqual(t, b.ID, int64(2), "remaining build")
}

func TestLiveBuildsModel_SelectionClampsOnRemoval(t *testing.T) {
	m := NewLiveBuildsModel()
	m.Apply(watcher.Result{Started: []teamcity.Build{testutil.RunningBuild(1), testutil.RunningBuild(2)}})

	m.MoveDown()
	m.MoveDown()
	testutil.AssertEqual(t, m.SelectedIndex(), 1, "bounded move down")

	m.Apply(watcher.Result{Run: []teamcity.Build{testutil.FinishedBuild(2)}})
	testutil.AssertEqual(t, m.SelectedIndex(), 0, "clamped")

	m.Reset()
	_, ok := m.SelectedBuild()
	testutil.AssertFalse(t, ok, "selection after reset")
}

func TestLiveBuildsModel_View(t *testing.T) {
	m := NewLiveBuildsModel()
	m.SetSize(60, 10)
	testutil.AssertContains(t, m.View(), "No running builds")

	b := testutil.TriggeredBuild(7, teamcity.StateRunning, "alice")
	b.RunningInfo = &teamcity.RunningInfo{PercentageComplete: 42}
	m.Apply(watcher.Result{Started: []teamcity.Build{b}})

	view := m.View()
	testutil.AssertContains(t, view, "Running (1)")
	testutil.AssertContains(t, view, "#7 Proj_Build")
	testutil.AssertContains(t, view, "alice")
	testutil.AssertContains(t, view, "42%")
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func note(kind notify.Kind, body string, age time.Duration) notify.Notification {
	return notify.Notification{Kind: kind, Title: string(kind), Body: body, At: fixedNow().Add(-age)}
}

func TestActivityModel_PushNewestFirst(t *testing.T) {
	m := NewActivityModel()
	m.Push(note(notify.KindStarted, "first", 0))
	m.Push(note(notify.KindStarted, "second", 0), note(notify.KindSuccess, "third", 0))

	lines := m.Lines()
	testutil.AssertEqual(t, len(lines), 3)
	testutil.AssertEqual(t, lines[0], "second")
	testutil.AssertEqual(t, lines[1], "third")
	testutil.AssertEqual(t, lines[2], "first")

	n, ok := m.SelectedEntry()
	testutil.AssertTrue(t, ok, "selection")
	testutil.AssertEqual(t, n.Body, "second")
}

func TestActivityModel_Bounded(t *testing.T) {
	m := NewActivityModel()
	for i := range MaxActivity + 10 {
		m.Push(note(notify.KindStarted, fmt.Sprintf("build %d", i), 0))
	}

	testutil.AssertEqual(t, m.Total(), MaxActivity)
	testutil.AssertEqual(t, m.Lines()[0], fmt.Sprintf("build %d", MaxActivity+9))
}

func TestActivityModel_Filter(t *testing.T) {
	m := NewActivityModel()
	m.Push(
		note(notify.KindStarted, "Build Started: 1 by alice on branch main", 0),
		note(notify.KindFailure, "Build finished FAILURE : 2 by bob on branch release", 0),
	)

	m.SetFilter("release")
	testutil.AssertEqual(t, m.Len(), 1, "filtered length")
	n, _ := m.SelectedEntry()
	testutil.AssertContains(t, n.Body, "bob")

	m.SetSize(80, 10)
	testutil.AssertContains(t, m.View(), "/release 1/2")

	m.SetFilter("zzz")
	testutil.AssertContains(t, m.ViewContent(), "No entries match")

	m.SetFilter("")
	testutil.AssertEqual(t, m.Len(), 2, "unfiltered length")
}

func TestActivityModel_ClearAndEmptyView(t *testing.T) {
	m := NewActivityModel()
	m.Push(note(notify.KindStarted, "x", 0))
	m.Clear()

	testutil.AssertEqual(t, m.Total(), 0)
	testutil.AssertContains(t, m.ViewContent(), "Waiting for builds")
}

func TestActivityModel_ViewShowsAge(t *testing.T) {
	m := NewActivityModel()
	m.now = fixedNow
	m.SetSize(100, 10)
	m.Push(note(notify.KindSuccess, "Build finished SUCCESS : 3", 5*time.Minute))

	testutil.AssertContains(t, m.ViewContent(), "5m ago")
}

func TestActivityModel_ViewKeepsSelectionVisible(t *testing.T) {
	m := NewActivityModel()
	m.SetSize(80, 6)
	for i := range 10 {
		m.Push(note(notify.KindStarted, fmt.Sprintf("entry-%02d", i), 0))
	}
	for range 8 {
		m.MoveDown()
	}

	content := m.ViewContent()
	testutil.AssertContains(t, content, "> ")
	testutil.AssertContains(t, content, "entry-01")
	testutil.AssertFalse(t, strings.Contains(content, "entry-09"), "top entry should scroll off")
}

func TestFormatTimeAgo(t *testing.T) {
	now := fixedNow()
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{3 * time.Minute, "3m ago"},
		{2 * time.Hour, "2h ago"},
		{48 * time.Hour, "Apr 29"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, formatTimeAgo(now.Add(-tt.ago), now), tt.want)
	}
}
