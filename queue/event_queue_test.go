package queue

import (
	"context"
	"testing"
	"time"

	"github.com/shoenig/test/must"

	"github.com/nattofriends/task-processing/structs"
)

func TestEventQueuePushTryPop(t *testing.T) {
	q := NewEventQueue()
	_, ok := q.TryPop()
	must.False(t, ok)

	q.Push(structs.Event{TaskID: "a"})
	q.Push(structs.Event{TaskID: "b"})

	e, ok := q.TryPop()
	must.True(t, ok)
	must.Eq(t, "a", e.TaskID)

	e, ok = q.TryPop()
	must.True(t, ok)
	must.Eq(t, "b", e.TaskID)

	_, ok = q.TryPop()
	must.False(t, ok)
}

func TestEventQueuePopBlocksUntilPush(t *testing.T) {
	q := NewEventQueue()
	ctx := context.Background()

	result := make(chan structs.Event, 1)
	go func() {
		e, err := q.Pop(ctx)
		must.NoError(t, err)
		result <- e
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push(structs.Event{TaskID: "late"})

	select {
	case e := <-result:
		must.Eq(t, "late", e.TaskID)
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after Push")
	}
}

func TestEventQueuePopContextCancel(t *testing.T) {
	q := NewEventQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Pop(ctx)
	must.Error(t, err)
}

func TestEventQueueClose(t *testing.T) {
	q := NewEventQueue()
	done := make(chan error, 1)
	go func() {
		_, err := q.Pop(context.Background())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		must.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Close")
	}
}
