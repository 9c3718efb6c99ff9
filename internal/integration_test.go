package internal_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	watcherr "github.com/kyleking/tcnotify/internal/errors"
	"github.com/kyleking/tcnotify/internal/history"
	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/teamcity"
	"github.com/kyleking/tcnotify/internal/testutil"
	"github.com/kyleking/tcnotify/internal/watcher"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeServer serves one scripted response per cycle for each build type and
// answers 401 once the script runs out.
type fakeServer struct {
	mu     sync.Mutex
	cycles map[string][][]teamcity.Build
	calls  map[string]int
}

func newFakeServer(t *testing.T, cycles map[string][][]teamcity.Build) *httptest.Server {
	t.Helper()

	fs := &fakeServer{cycles: cycles, calls: map[string]int{}}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)

	return srv
}

func (fs *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer secret" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	locator := r.URL.Query().Get("locator")

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for id, script := range fs.cycles {
		if !strings.Contains(locator, "buildType:(id:"+id+")") {
			continue
		}

		n := fs.calls[id]
		fs.calls[id]++
		if n >= len(script) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(teamcity.BuildsResponse{Count: len(script[n]), Build: script[n]})
		return
	}

	http.NotFound(w, r)
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

// TestEndToEnd_StartRunFinish drives a watcher against an HTTP TeamCity
// through a build's whole life and checks the notifications and history.
func TestEndToEnd_StartRunFinish(t *testing.T) {
	finished := testutil.TriggeredBuild(100, teamcity.StateFinished, "alice")
	finished.Status = teamcity.StatusFailure

	other := testutil.TriggeredBuild(200, teamcity.StateRunning, "bob")
	other.BuildTypeID = "Proj_Test"

	srv := newFakeServer(t, map[string][][]teamcity.Build{
		"Proj_Build": {
			{testutil.TriggeredBuild(100, teamcity.StateRunning, "alice")},
			{testutil.TriggeredBuild(100, teamcity.StateRunning, "alice")},
			{finished},
		},
		"Proj_Test": {{other}, {other}, {other}},
	})

	client, err := teamcity.NewClient(teamcity.Options{URL: srv.URL, Token: "secret", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	w := watcher.New(client,
		watcher.NewConfig([]string{"Proj_Build", "Proj_Test"}, []string{"Alice"}),
		watcher.WithAfterFunc(func(time.Duration, func()) watcher.Timer { return manualTimer{} }),
	)
	defer w.Stop()

	store := history.NewStore()
	var feed []notify.Notification

	w.Events().OnBuildCheck(func(result watcher.Result) {
		feed = append(feed, notify.FromResult(result, true, now)...)
		for _, b := range result.Run {
			store.Record(b, now)
		}
	})

	var cycleErr error
	w.Events().OnCycleError(func(err error) { cycleErr = err })

	for i := range 3 {
		if err := w.CheckBuilds(t.Context()); err != nil {
			t.Fatalf("cycle %d: %v", i+1, err)
		}
	}

	if len(feed) != 3 {
		t.Fatalf("expected 3 notifications, got %d: %v", len(feed), feed)
	}

	testutil.AssertEqual(t, feed[0].Kind, notify.KindStarted, "first cycle")
	testutil.AssertContains(t, feed[0].Body, "Build Started: 100 by alice on branch main")
	testutil.AssertEqual(t, feed[1].Kind, notify.KindRunning, "second cycle")
	testutil.AssertEqual(t, feed[2].Kind, notify.KindFailure, "third cycle")
	testutil.AssertContains(t, feed[2].Body, "Build finished FAILURE : 100 by alice")

	testutil.AssertEqual(t, len(w.Tracked()), 0, "finished build untracked")

	recent := store.Recent("", 0)
	if len(recent) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(recent))
	}
	testutil.AssertEqual(t, recent[0].BuildID, int64(100), "history entry")

	path := filepath.Join(t.TempDir(), "history.json")
	if err := store.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := history.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	testutil.AssertEqual(t, len(loaded.Notifications(10)), 1, "reloaded history")

	err = w.CheckBuilds(t.Context())
	testutil.AssertNotNil(t, err, "exhausted script fails the cycle")
	testutil.AssertTrue(t, errors.Is(err, teamcity.ErrUnauthorized), "unauthorized: %v", err)
	testutil.AssertNotEqual(t, watcherr.GetPipelineID(err), "", "failing pipeline named")
	testutil.AssertTrue(t, errors.Is(cycleErr, teamcity.ErrUnauthorized), "cycle error published")
}
