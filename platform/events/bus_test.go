package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncInvokesHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var calls []int
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls = append(calls, 1)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls = append(calls, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("expected handlers [1 2], got %v", calls)
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	wantErr := errors.New("handler failed")
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return wantErr
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected joined error to contain %v, got %v", wantErr, err)
	}
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(nil)

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "test.event"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked within 1s")
	}
}

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
