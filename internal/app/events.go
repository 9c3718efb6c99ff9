package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/tcnotify/internal/watcher"
)

// StateChangedMsg carries a watcher lifecycle transition.
type StateChangedMsg struct {
	Change watcher.StateChange
}

// BuildCheckMsg carries the result of a completed cycle.
type BuildCheckMsg struct {
	Result watcher.Result
}

// CycleErrorMsg reports a cycle aborted by a fetch failure.
type CycleErrorMsg struct {
	Err error
}

const eventBuffer = 64

// EventStream forwards watcher events into the bubbletea loop. Handlers
// block once the buffer is full, which holds the watcher back rather than
// dropping notifications.
type EventStream struct {
	ch    chan tea.Msg
	done  chan struct{}
	unsub []func()
	once  sync.Once
}

// Subscribe attaches an EventStream to bus.
func Subscribe(bus *watcher.EventBus) *EventStream {
	s := &EventStream{
		ch:   make(chan tea.Msg, eventBuffer),
		done: make(chan struct{}),
	}

	s.unsub = []func(){
		bus.OnStateChange(func(c watcher.StateChange) { s.forward(StateChangedMsg{Change: c}) }),
		bus.OnBuildCheck(func(r watcher.Result) { s.forward(BuildCheckMsg{Result: r}) }),
		bus.OnCycleError(func(err error) { s.forward(CycleErrorMsg{Err: err}) }),
	}

	return s
}

func (s *EventStream) forward(msg tea.Msg) {
	select {
	case s.ch <- msg:
	case <-s.done:
	}
}

// Next waits for the next event. The model re-issues it after every event.
func (s *EventStream) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.ch:
			return msg
		case <-s.done:
			return nil
		}
	}
}

// Close unsubscribes from the bus and releases any blocked handler.
func (s *EventStream) Close() {
	s.once.Do(func() {
		for _, unsub := range s.unsub {
			unsub()
		}
		close(s.done)
	})
}
