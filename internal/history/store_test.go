package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/teamcity"
	"github.com/kyleking/tcnotify/internal/testutil"
)

var at = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestStore_Record(t *testing.T) {
	store := NewStore()

	store.Record(testutil.TriggeredBuild(7, teamcity.StateFinished, "alice"), at)

	entries := store.Recent("", 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	testutil.AssertEqual(t, e.BuildID, int64(7), "build id")
	testutil.AssertEqual(t, e.Pipeline, "Proj_Build", "pipeline")
	testutil.AssertEqual(t, e.User, "alice", "user")
	testutil.AssertEqual(t, e.Status, teamcity.StatusSuccess, "status")
	testutil.AssertTrue(t, e.FinishedAt.Equal(at), "finished at")
}

func TestStore_Record_MovesDuplicateToFront(t *testing.T) {
	store := NewStore()

	store.Record(testutil.FinishedBuild(1), at)
	store.Record(testutil.FinishedBuild(2), at)
	store.Record(testutil.FailedBuild(1), at.Add(time.Minute))

	entries := store.Recent("", 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	testutil.AssertEqual(t, entries[0].BuildID, int64(1), "re-recorded build first")
	testutil.AssertEqual(t, entries[0].Status, teamcity.StatusFailure, "latest outcome kept")
}

func TestStore_Record_EmptyStatus(t *testing.T) {
	store := NewStore()

	b := testutil.FinishedBuild(3)
	b.Status = ""
	store.Record(b, at)

	testutil.AssertEqual(t, store.Recent("", 1)[0].Status, teamcity.StatusUnknown, "status")
}

func TestStore_Record_Caps(t *testing.T) {
	store := NewStore()

	for i := range MaxEntries + 10 {
		store.Record(testutil.FinishedBuild(int64(i)), at)
	}

	entries := store.Recent("", 0)
	testutil.AssertEqual(t, len(entries), MaxEntries, "capped")
	testutil.AssertEqual(t, entries[0].BuildID, int64(MaxEntries+9), "newest kept")
}

func TestStore_Recent(t *testing.T) {
	store := NewStore()

	other := testutil.FinishedBuild(1)
	other.BuildTypeID = "Proj_Test"
	store.Record(other, at)
	store.Record(testutil.FinishedBuild(2), at)
	store.Record(testutil.FinishedBuild(3), at)

	tests := []struct {
		name     string
		pipeline string
		limit    int
		want     []int64
	}{
		{"all", "", 0, []int64{3, 2, 1}},
		{"limited", "", 2, []int64{3, 2}},
		{"by pipeline", "Proj_Test", 0, []int64{1}},
		{"unknown pipeline", "Nope", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int64
			for _, e := range store.Recent(tt.pipeline, tt.limit) {
				got = append(got, e.BuildID)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				testutil.AssertEqual(t, got[i], tt.want[i], "id")
			}
		})
	}
}

func TestStore_Notifications(t *testing.T) {
	store := NewStore()

	store.Record(testutil.FinishedBuild(1), at)
	store.Record(testutil.FailedBuild(2), at.Add(time.Minute))

	ns := store.Notifications(10)
	if len(ns) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(ns))
	}

	testutil.AssertEqual(t, ns[0].Kind, notify.KindFailure, "newest first")
	testutil.AssertEqual(t, ns[1].Kind, notify.KindSuccess, "older success")
	testutil.AssertContains(t, ns[1].Body, "SUCCESS", "body status")
	testutil.AssertTrue(t, ns[0].At.Equal(at.Add(time.Minute)), "timestamp from entry")
}

func TestEntry_BuildKeepsUser(t *testing.T) {
	e := Entry{BuildID: 4, Number: "4", Pipeline: "Proj_Build", User: "bob", Status: teamcity.StatusSuccess}

	testutil.AssertEqual(t, notify.Username(e.Build()), "bob", "user")

	e.User = "unknown"
	testutil.AssertTrue(t, e.Build().Triggered == nil, "no triggering user")
}

func TestStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")

	store := NewStore()
	store.Record(testutil.TriggeredBuild(9, teamcity.StateFinished, "carol"), at)

	if err := store.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	entries := loaded.Recent("", 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	testutil.AssertEqual(t, entries[0].User, "carol", "user")
	testutil.AssertTrue(t, entries[0].FinishedAt.Equal(at), "finished at")
}

func TestLoadFrom_Missing(t *testing.T) {
	store, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, len(store.Recent("", 0)), 0, "empty")
}

func TestLoadFrom_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	testutil.AssertNotNil(t, err, "corrupt file")
}

func TestCachePath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	testutil.AssertEqual(t, CachePath(), filepath.Join(dir, "tcnotify", "history.json"), "path")
}
