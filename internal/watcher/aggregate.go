package watcher

import "github.com/kyleking/tcnotify/internal/teamcity"

// Result is the outcome of one polling cycle. Each list keeps input order.
type Result struct {
	Started []teamcity.Build // running now, not tracked before
	Running []teamcity.Build // running now, already tracked
	Run     []teamcity.Build // tracked before, no longer running
}

// IsEmpty reports whether the cycle produced no classified builds.
func (r Result) IsEmpty() bool {
	return len(r.Started) == 0 && len(r.Running) == 0 && len(r.Run) == 0
}

// Classify sorts builds into started, running and run, updating tracking as
// it goes. Builds are evaluated strictly in input order; builds failing the
// user filter are skipped without touching tracking.
func Classify(builds []teamcity.Build, tracking *TrackingSet, users UserSet) Result {
	var result Result

	for _, build := range builds {
		if !Passes(build, users) {
			continue
		}

		isRunning := build.IsRunning()
		isTracked := tracking.Has(build.ID)

		switch {
		case !isRunning && isTracked:
			result.Run = append(result.Run, build)
			tracking.Remove(build.ID)
		case isRunning && !isTracked:
			result.Started = append(result.Started, build)
			tracking.Add(build.ID)
		case isRunning:
			result.Running = append(result.Running, build)
		}
	}

	return result
}
