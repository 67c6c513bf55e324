// Package queue implements the small concurrent FIFO primitives the
// execution framework and retry executor share: an unbounded event
// stream (single producer, one or more consumers) and a task queue
// (single caller-side producer, drained by the driver thread during
// offer matching). spec.md §9 asks for independent workers communicating
// over concurrent FIFOs and small mutex-protected maps rather than a
// shared event loop; these two types are that primitive.
package queue

import (
	"context"
	"sync"

	"github.com/nattofriends/task-processing/structs"
)

// EventQueue is an unbounded, mutex+condvar backed FIFO of Events. Pop
// blocks until an Event is available or ctx is done; TryPop never blocks.
type EventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []structs.Event
	closed bool
}

func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an Event and wakes any blocked consumer.
func (q *EventQueue) Push(e structs.Event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// TryPop returns the oldest Event without blocking.
func (q *EventQueue) TryPop() (structs.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *EventQueue) popLocked() (structs.Event, bool) {
	if len(q.items) == 0 {
		return structs.Event{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

// Pop blocks until an Event is available, the queue is closed with items
// remaining drained, or ctx is done.
func (q *EventQueue) Pop(ctx context.Context) (structs.Event, error) {
	// Wake waiters if ctx is cancelled out from under Cond.Wait.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			q.cond.Broadcast()
		case <-done:
		}
	}()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if e, ok := q.popLocked(); ok {
			return e, nil
		}
		if q.closed {
			return structs.Event{}, context.Canceled
		}
		if err := ctx.Err(); err != nil {
			return structs.Event{}, err
		}
		q.cond.Wait()
	}
}

// Close unblocks every pending Pop with context.Canceled. No further items
// may be pushed after Close.
func (q *EventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len reports the number of buffered, unconsumed events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
