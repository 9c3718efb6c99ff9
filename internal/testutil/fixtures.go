package testutil

import (
	"fmt"

	"github.com/kyleking/tcnotify/internal/teamcity"
)

// BuildFixture creates a build with the given id and state.
func BuildFixture(id int64, state string) teamcity.Build {
	return teamcity.Build{
		ID:          id,
		Number:      fmt.Sprintf("%d", id),
		State:       state,
		Status:      teamcity.StatusSuccess,
		BuildTypeID: "Proj_Build",
		BranchName:  "main",
		WebURL:      fmt.Sprintf("https://tc.example.com/viewLog.html?buildId=%d", id),
	}
}

// RunningBuild creates a running build with no associated user.
func RunningBuild(id int64) teamcity.Build {
	return BuildFixture(id, teamcity.StateRunning)
}

// FinishedBuild creates a successfully finished build with no associated user.
func FinishedBuild(id int64) teamcity.Build {
	return BuildFixture(id, teamcity.StateFinished)
}

// FailedBuild creates a finished build with a failure status.
func FailedBuild(id int64) teamcity.Build {
	b := BuildFixture(id, teamcity.StateFinished)
	b.Status = teamcity.StatusFailure
	return b
}

// TriggeredBuild creates a build triggered by username.
func TriggeredBuild(id int64, state, username string) teamcity.Build {
	b := BuildFixture(id, state)
	b.Triggered = &teamcity.Triggered{Type: "user", User: &teamcity.User{Username: username}}
	return b
}

// ChangedBuild creates a build whose latest change was authored by username.
func ChangedBuild(id int64, state, username string) teamcity.Build {
	b := BuildFixture(id, state)
	b.LastChanges = &teamcity.Changes{Change: []teamcity.Change{{Username: username}}}
	return b
}
