package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/kyleking/tcnotify/internal/teamcity"
)

// MockBuildClient implements watcher.BuildClient with canned responses.
type MockBuildClient struct {
	mu     sync.Mutex
	builds map[string][]teamcity.Build
	errs   map[string]error
	delays map[string]time.Duration
	calls  []string

	// OnFetch, when set, runs at the start of every Builds call.
	OnFetch func(buildTypeID string)
}

// NewMockBuildClient creates a MockBuildClient returning no builds.
func NewMockBuildClient() *MockBuildClient {
	return &MockBuildClient{
		builds: make(map[string][]teamcity.Build),
		errs:   make(map[string]error),
		delays: make(map[string]time.Duration),
	}
}

// WithBuilds sets the builds returned for a build type.
func (m *MockBuildClient) WithBuilds(buildTypeID string, builds ...teamcity.Build) *MockBuildClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds[buildTypeID] = builds
	return m
}

// WithError makes fetches of a build type fail.
func (m *MockBuildClient) WithError(buildTypeID string, err error) *MockBuildClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[buildTypeID] = err
	return m
}

// WithDelay delays responses for a build type.
func (m *MockBuildClient) WithDelay(buildTypeID string, d time.Duration) *MockBuildClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[buildTypeID] = d
	return m
}

func (m *MockBuildClient) Builds(ctx context.Context, buildTypeID string) ([]teamcity.Build, error) {
	m.mu.Lock()
	m.calls = append(m.calls, buildTypeID)
	delay := m.delays[buildTypeID]
	err := m.errs[buildTypeID]
	builds := m.builds[buildTypeID]
	onFetch := m.OnFetch
	m.mu.Unlock()

	if onFetch != nil {
		onFetch(buildTypeID)
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	return builds, nil
}

// Calls returns the build types fetched so far, in call order.
func (m *MockBuildClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
