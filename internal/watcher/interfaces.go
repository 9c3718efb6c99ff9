// Package watcher polls TeamCity build configurations and reports which builds
// started, are still running, or finished since the previous poll.
package watcher

import (
	"context"
	"time"

	"github.com/kyleking/tcnotify/internal/teamcity"
)

// BuildClient defines the TeamCity operation needed by the watcher.
type BuildClient interface {
	Builds(ctx context.Context, buildTypeID string) ([]teamcity.Build, error)
}

// Timer is a pending scheduled cycle.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d. time.AfterFunc satisfies it via a wrapper.
type AfterFunc func(d time.Duration, f func()) Timer
