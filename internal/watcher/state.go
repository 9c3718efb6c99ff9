package watcher

// State is the lifecycle state of a Watcher.
type State string

const (
	StateStopped State = "stopped"
	StateWaiting State = "waiting"
	StateRunning State = "running"
)

// StateChange is published whenever the watcher changes state.
type StateChange struct {
	From State
	To   State
}
