package queue

import (
	"sync"

	"github.com/nattofriends/task-processing/structs"
)

// TaskQueue is a mutex-protected FIFO of pending TaskConfigs, the backing
// store for the execution framework's "tasks waiting for an offer" list.
// Unlike EventQueue it is drained synchronously from inside the offer
// matching loop, so it exposes PushFront to put a task back at the head
// of the line when an offer can't satisfy it and the framework moves on
// to the next offer in the same batch.
type TaskQueue struct {
	mu    sync.Mutex
	items []structs.TaskConfig
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// PushBack enqueues cfg at the tail, the normal Enqueue path.
func (q *TaskQueue) PushBack(cfg structs.TaskConfig) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, cfg)
}

// PushFront puts cfg back at the head, used when a task is pulled off the
// queue to match against an offer but the offer turns out insufficient.
func (q *TaskQueue) PushFront(cfg structs.TaskConfig) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append([]structs.TaskConfig{cfg}, q.items...)
}

// PopFront removes and returns the head of the queue.
func (q *TaskQueue) PopFront() (structs.TaskConfig, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return structs.TaskConfig{}, false
	}
	cfg := q.items[0]
	q.items = q.items[1:]
	return cfg, true
}

// Len reports the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the queued tasks in order, for inspection
// and tests; mutating the result does not affect the queue.
func (q *TaskQueue) Snapshot() []structs.TaskConfig {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]structs.TaskConfig, len(q.items))
	copy(out, q.items)
	return out
}
