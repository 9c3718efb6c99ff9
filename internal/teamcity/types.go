package teamcity

// Build states reported by TeamCity.
const (
	StateQueued   = "queued"
	StateRunning  = "running"
	StateFinished = "finished"
)

// Build statuses reported by TeamCity.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
	StatusUnknown = "UNKNOWN"
)

// Build represents a single TeamCity build as returned by the builds endpoint.
type Build struct {
	ID          int64        `json:"id"`
	Number      string       `json:"number"`
	Status      string       `json:"status"`
	State       string       `json:"state"`
	BranchName  string       `json:"branchName"`
	WebURL      string       `json:"webUrl"`
	BuildTypeID string       `json:"buildTypeId"`
	RunningInfo *RunningInfo `json:"running-info,omitempty"`
	Triggered   *Triggered   `json:"triggered,omitempty"`
	LastChanges *Changes     `json:"lastChanges,omitempty"`
}

// RunningInfo holds progress details for a running build.
type RunningInfo struct {
	PercentageComplete    int    `json:"percentageComplete"`
	ElapsedSeconds        int    `json:"elapsedSeconds"`
	EstimatedTotalSeconds int    `json:"estimatedTotalSeconds"`
	CurrentStageText      string `json:"currentStageText"`
}

// Triggered describes what started a build.
type Triggered struct {
	Type string `json:"type"`
	User *User  `json:"user,omitempty"`
}

// User is a TeamCity user reference.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// DisplayName returns the user's full name, or the username when unset.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Changes is the list of VCS changes associated with a build.
type Changes struct {
	Change []Change `json:"change"`
}

// Change is a single VCS change.
type Change struct {
	Username string `json:"username"`
}

// Project is a TeamCity project with its own build configurations.
type Project struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	ParentProjectID string      `json:"parentProjectId,omitempty"`
	BuildTypes      *BuildTypes `json:"buildTypes,omitempty"`
}

// BuildTypeList returns the project's build configurations, if any.
func (p Project) BuildTypeList() []BuildType {
	if p.BuildTypes == nil {
		return nil
	}
	return p.BuildTypes.BuildType
}

// BuildTypes is the list of build configurations nested in a project.
type BuildTypes struct {
	Count     int         `json:"count"`
	BuildType []BuildType `json:"buildType"`
}

// BuildType is a build configuration, the unit the watcher polls.
type BuildType struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ProjectID string        `json:"projectId,omitempty"`
	Builds    *RecentBuilds `json:"builds,omitempty"`
}

// LastBuild returns the latest finished build, when the server included one.
func (bt BuildType) LastBuild() (RecentBuild, bool) {
	if bt.Builds == nil || len(bt.Builds.Build) == 0 {
		return RecentBuild{}, false
	}
	return bt.Builds.Build[0], true
}

// RecentBuilds holds the builds embedded in a BuildType.
type RecentBuilds struct {
	Build []RecentBuild `json:"build"`
}

// RecentBuild is the summary of a build embedded in a BuildType.
type RecentBuild struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
	BranchName string `json:"branchName"`
}

// ProjectsResponse is the envelope returned by app/rest/projects.
type ProjectsResponse struct {
	Count   int       `json:"count"`
	Project []Project `json:"project"`
}

// BuildTypesResponse is the envelope returned by app/rest/buildTypes.
type BuildTypesResponse struct {
	Count     int         `json:"count"`
	BuildType []BuildType `json:"buildType"`
}

// UsersResponse is the envelope returned by app/rest/users.
type UsersResponse struct {
	Count int    `json:"count"`
	User  []User `json:"user"`
}

// BuildsResponse is the envelope returned by app/rest/builds.
type BuildsResponse struct {
	Count int     `json:"count"`
	Build []Build `json:"build"`
}

// IsRunning reports whether TeamCity considers the build to be executing.
func (b Build) IsRunning() bool {
	return b.State == StateRunning
}

// IsSuccess reports whether the build finished successfully.
func (b Build) IsSuccess() bool {
	return b.Status == StatusSuccess
}

// TriggeringUsername returns the user who triggered the build, or "" when it
// was not triggered by a person.
func (b Build) TriggeringUsername() string {
	if b.Triggered == nil || b.Triggered.User == nil {
		return ""
	}

	return b.Triggered.User.Username
}

// LastChangeUsername returns the author of the most recent change, or "".
func (b Build) LastChangeUsername() string {
	if b.LastChanges == nil || len(b.LastChanges.Change) == 0 {
		return ""
	}

	return b.LastChanges.Change[0].Username
}
