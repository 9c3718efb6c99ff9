// Package notify turns watcher events into short, human-readable messages.
package notify

import (
	"fmt"
	"time"

	"github.com/kyleking/tcnotify/internal/teamcity"
	"github.com/kyleking/tcnotify/internal/watcher"
)

// Kind classifies a Notification.
type Kind string

const (
	KindStarted   Kind = "started"
	KindRunning   Kind = "running"
	KindSuccess   Kind = "success"
	KindFailure   Kind = "failure"
	KindLifecycle Kind = "lifecycle"
	KindError     Kind = "error"
)

// Notification is one message shown to the user.
type Notification struct {
	Kind  Kind
	Title string
	Body  string
	Build *teamcity.Build
	At    time.Time
}

// Username resolves who a build belongs to, preferring the triggering user.
func Username(b teamcity.Build) string {
	if name := b.TriggeringUsername(); name != "" {
		return name
	}
	if name := b.LastChangeUsername(); name != "" {
		return name
	}
	return "unknown"
}

// FromResult renders a completed cycle. Started builds come first, then
// finished ones. Still-running builds are included only when withRunning is
// set, since they repeat every cycle.
func FromResult(result watcher.Result, withRunning bool, now time.Time) []Notification {
	var out []Notification

	for _, b := range result.Started {
		out = append(out, Notification{
			Kind:  KindStarted,
			Title: "Build started",
			Body:  fmt.Sprintf("Build Started: %s by %s on branch %s", b.Number, Username(b), branch(b)),
			Build: ptr(b),
			At:    now,
		})
	}

	for _, b := range result.Run {
		out = append(out, FromFinished(b, now))
	}

	if withRunning {
		for _, b := range result.Running {
			out = append(out, Notification{
				Kind:  KindRunning,
				Title: "Build running",
				Body:  fmt.Sprintf("Build running: %s by %s on branch %s%s", b.Number, Username(b), branch(b), progress(b)),
				Build: ptr(b),
				At:    now,
			})
		}
	}

	return out
}

// FromFinished renders a build that is no longer running.
func FromFinished(b teamcity.Build, at time.Time) Notification {
	kind := KindSuccess
	if !b.IsSuccess() {
		kind = KindFailure
	}

	return Notification{
		Kind:  kind,
		Title: "Build finished",
		Body:  fmt.Sprintf("Build finished %s : %s by %s on branch %s", status(b), b.Number, Username(b), branch(b)),
		Build: ptr(b),
		At:    at,
	}
}

// FromStateChange reports the transitions worth surfacing: leaving stopped
// and entering stopped. Running/waiting flips inside a cycle are silent.
func FromStateChange(change watcher.StateChange, now time.Time) (Notification, bool) {
	switch {
	case change.From == watcher.StateStopped && change.To == watcher.StateRunning:
		return Notification{Kind: KindLifecycle, Title: "state change", Body: "Started watching for builds", At: now}, true
	case change.To == watcher.StateStopped:
		return Notification{Kind: KindLifecycle, Title: "state change", Body: "Stopped watching for builds", At: now}, true
	default:
		return Notification{}, false
	}
}

// FromError renders an aborted cycle.
func FromError(err error, now time.Time) Notification {
	return Notification{
		Kind:  KindError,
		Title: "Build check failed",
		Body:  fmt.Sprintf("%v (watching paused, restart to retry)", err),
		At:    now,
	}
}

// String formats n as a single line.
func (n Notification) String() string {
	return fmt.Sprintf("%s: %s", n.Title, n.Body)
}

func branch(b teamcity.Build) string {
	if b.BranchName == "" {
		return "<default>"
	}
	return b.BranchName
}

func status(b teamcity.Build) string {
	if b.Status == "" {
		return teamcity.StatusUnknown
	}
	return b.Status
}

func progress(b teamcity.Build) string {
	if b.RunningInfo == nil {
		return ""
	}
	return fmt.Sprintf(" (%d%%)", b.RunningInfo.PercentageComplete)
}

func ptr(b teamcity.Build) *teamcity.Build {
	return &b
}
