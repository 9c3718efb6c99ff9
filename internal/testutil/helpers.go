package testutil

import (
	"testing"

	"github.com/kyleking/tcnotify/internal/teamcity"
)

// BuildIDs returns the ids of builds in order.
func BuildIDs(builds []teamcity.Build) []int64 {
	ids := make([]int64, len(builds))
	for i, b := range builds {
		ids[i] = b.ID
	}

	return ids
}

// AssertBuildIDs verifies that builds have exactly the expected ids, in order.
func AssertBuildIDs(t *testing.T, builds []teamcity.Build, want []int64, msg string) {
	t.Helper()

	got := BuildIDs(builds)
	if len(got) != len(want) {
		t.Errorf("%s: got ids %v, want %v", msg, got, want)
		return
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got ids %v, want %v", msg, got, want)
			return
		}
	}
}
