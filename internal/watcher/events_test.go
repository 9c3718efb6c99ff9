package watcher

import (
	"errors"
	"testing"

	"github.com/kyleking/tcnotify/internal/testutil"
)

func TestEventBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()

	var order []string
	bus.OnStateChange(func(StateChange) { order = append(order, "first") })
	bus.OnStateChange(func(StateChange) { order = append(order, "second") })

	bus.publishStateChange(StateChange{From: StateStopped, To: StateRunning})

	testutil.AssertEqual(t, len(order), 2, "deliveries")
	testutil.AssertEqual(t, order[0], "first")
	testutil.AssertEqual(t, order[1], "second")
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	unsubscribe := bus.OnBuildCheck(func(Result) { calls++ })

	bus.publishBuildCheck(Result{})
	unsubscribe()
	unsubscribe()
	bus.publishBuildCheck(Result{})

	testutil.AssertEqual(t, calls, 1, "handler calls")
}

func TestEventBus_UnsubscribeKeepsOthers(t *testing.T) {
	bus := NewEventBus()

	var got []string
	unsubA := bus.OnCycleError(func(error) { got = append(got, "a") })
	bus.OnCycleError(func(error) { got = append(got, "b") })

	unsubA()
	bus.publishCycleError(errors.New("boom"))

	testutil.AssertEqual(t, len(got), 1, "deliveries")
	testutil.AssertEqual(t, got[0], "b")
}

func TestEventBus_NoSubscribers(t *testing.T) {
	bus := NewEventBus()

	bus.publishStateChange(StateChange{From: StateRunning, To: StateWaiting})
	bus.publishBuildCheck(Result{})
	bus.publishCycleError(errors.New("ignored"))
}

func TestEventBus_HandlerMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	var unsubscribe func()
	unsubscribe = bus.OnStateChange(func(StateChange) {
		calls++
		unsubscribe()
	})

	bus.publishStateChange(StateChange{From: StateStopped, To: StateRunning})
	bus.publishStateChange(StateChange{From: StateRunning, To: StateWaiting})

	testutil.AssertEqual(t, calls, 1, "handler calls")
}
