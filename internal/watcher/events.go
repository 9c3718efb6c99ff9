package watcher

import "sync"

type subscriber[T any] struct {
	id      int
	handler func(T)
}

// EventBus delivers watcher notifications to subscribers. Handlers run
// synchronously, in subscription order, on the goroutine that publishes.
// Events published while nobody is subscribed are dropped.
type EventBus struct {
	mu          sync.RWMutex
	nextID      int
	stateChange []subscriber[StateChange]
	buildCheck  []subscriber[Result]
	cycleError  []subscriber[error]
}

// NewEventBus creates an EventBus with no subscribers.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// OnStateChange subscribes to state transitions. The returned func unsubscribes.
func (b *EventBus) OnStateChange(handler func(StateChange)) func() {
	return subscribe(b, &b.stateChange, handler)
}

// OnBuildCheck subscribes to the result of every completed cycle.
func (b *EventBus) OnBuildCheck(handler func(Result)) func() {
	return subscribe(b, &b.buildCheck, handler)
}

// OnCycleError subscribes to cycles aborted by a fetch failure.
func (b *EventBus) OnCycleError(handler func(error)) func() {
	return subscribe(b, &b.cycleError, handler)
}

func (b *EventBus) publishStateChange(change StateChange) {
	publish(b, &b.stateChange, change)
}

func (b *EventBus) publishBuildCheck(result Result) {
	publish(b, &b.buildCheck, result)
}

func (b *EventBus) publishCycleError(err error) {
	publish(b, &b.cycleError, err)
}

func subscribe[T any](b *EventBus, subs *[]subscriber[T], handler func(T)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	*subs = append(*subs, subscriber[T]{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			kept := (*subs)[:0:0]
			for _, s := range *subs {
				if s.id != id {
					kept = append(kept, s)
				}
			}
			*subs = kept
		})
	}
}

func publish[T any](b *EventBus, subs *[]subscriber[T], event T) {
	b.mu.RLock()
	handlers := make([]func(T), len(*subs))
	for i, s := range *subs {
		handlers[i] = s.handler
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
