package watcher

import (
	"sort"
	"strings"

	"github.com/kyleking/tcnotify/internal/teamcity"
)

// UserSet is a set of lowercase usernames. An empty set accepts every build.
type UserSet map[string]struct{}

// NewUserSet builds a set from names, lowercasing each.
func NewUserSet(names ...string) UserSet {
	set := make(UserSet, len(names))
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is in the set, ignoring case.
func (s UserSet) Contains(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// Names returns the usernames in sorted order.
func (s UserSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Passes reports whether build belongs to one of the users. The triggering
// user is preferred; the author of the latest change is the fallback. Builds
// with no resolvable user never pass a non-empty set.
func Passes(build teamcity.Build, users UserSet) bool {
	if len(users) == 0 {
		return true
	}

	username := build.TriggeringUsername()
	if username == "" {
		username = build.LastChangeUsername()
	}

	if username == "" {
		return false
	}

	return users.Contains(username)
}
