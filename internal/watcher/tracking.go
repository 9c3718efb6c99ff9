package watcher

import (
	"sort"
	"sync"
)

// TrackingSet holds the ids of builds last seen running. It lives as long as
// the Watcher that owns it and is mutated only by Classify.
type TrackingSet struct {
	ids map[int64]struct{}
	mu  sync.RWMutex
}

// NewTrackingSet creates an empty tracking set.
func NewTrackingSet() *TrackingSet {
	return &TrackingSet{ids: make(map[int64]struct{})}
}

// Has reports whether id is tracked.
func (t *TrackingSet) Has(id int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}

// Add starts tracking id.
func (t *TrackingSet) Add(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[id] = struct{}{}
}

// Remove stops tracking id.
func (t *TrackingSet) Remove(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, id)
}

// Len returns the number of tracked builds.
func (t *TrackingSet) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// IDs returns the tracked ids in ascending order.
func (t *TrackingSet) IDs() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
