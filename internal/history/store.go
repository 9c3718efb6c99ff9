// Package history keeps a small on-disk record of finished builds so the
// activity feed survives restarts.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kyleking/tcnotify/internal/notify"
	"github.com/kyleking/tcnotify/internal/teamcity"
)

// MaxEntries bounds the number of builds kept on disk.
const MaxEntries = 100

// Entry is the persisted outcome of one finished build.
type Entry struct {
	BuildID    int64     `json:"build_id"`
	Number     string    `json:"number"`
	Pipeline   string    `json:"pipeline"`
	Branch     string    `json:"branch,omitempty"`
	User       string    `json:"user"`
	Status     string    `json:"status"`
	WebURL     string    `json:"web_url,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Build reconstructs enough of the TeamCity build for rendering.
func (e Entry) Build() teamcity.Build {
	b := teamcity.Build{
		ID:          e.BuildID,
		Number:      e.Number,
		Status:      e.Status,
		State:       teamcity.StateFinished,
		BranchName:  e.Branch,
		WebURL:      e.WebURL,
		BuildTypeID: e.Pipeline,
	}
	if e.User != "" && e.User != "unknown" {
		b.Triggered = &teamcity.Triggered{Type: "user", User: &teamcity.User{Username: e.User}}
	}

	return b
}

// Store is a newest-first list of finished builds. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	Entries []Entry `json:"entries"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// CachePath returns the default history file location.
func CachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tcnotify", "history.json")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tcnotify", "history.json")
}

// Load reads the store from CachePath.
func Load() (*Store, error) {
	return LoadFrom(CachePath())
}

// LoadFrom reads the store from path, returning an empty store if the file
// does not exist.
func LoadFrom(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}

		return nil, err
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, err
	}

	if len(store.Entries) > MaxEntries {
		store.Entries = store.Entries[:MaxEntries]
	}

	return &store, nil
}

// Save writes the store to CachePath.
func (s *Store) Save() error {
	return s.SaveTo(CachePath())
}

// SaveTo writes the store to path, creating parent directories.
func (s *Store) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	s.mu.Lock()
	data, err := json.MarshalIndent(s, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Record stores b as finished at at. A build already recorded is moved to the
// front with its latest outcome.
func (s *Store) Record(b teamcity.Build, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := b.Status
	if status == "" {
		status = teamcity.StatusUnknown
	}

	entry := Entry{
		BuildID:    b.ID,
		Number:     b.Number,
		Pipeline:   b.BuildTypeID,
		Branch:     b.BranchName,
		User:       notify.Username(b),
		Status:     status,
		WebURL:     b.WebURL,
		FinishedAt: at,
	}

	entries := make([]Entry, 0, len(s.Entries)+1)
	entries = append(entries, entry)
	for _, e := range s.Entries {
		if e.BuildID != b.ID {
			entries = append(entries, e)
		}
	}

	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	s.Entries = entries
}

// Recent returns up to limit entries, newest first. An empty pipeline matches
// every entry; limit <= 0 means no limit.
func (s *Store) Recent(pipeline string, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Entry
	for _, e := range s.Entries {
		if pipeline != "" && e.Pipeline != pipeline {
			continue
		}
		result = append(result, e)
		if limit > 0 && len(result) == limit {
			break
		}
	}

	return result
}

// Notifications renders the newest limit entries as finished-build
// notifications, newest first.
func (s *Store) Notifications(limit int) []notify.Notification {
	entries := s.Recent("", limit)

	ns := make([]notify.Notification, 0, len(entries))
	for _, e := range entries {
		ns = append(ns, notify.FromFinished(e.Build(), e.FinishedAt))
	}

	return ns
}
