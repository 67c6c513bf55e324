// Package runner implements the synchronous convenience runner: a thin
// wrapper over any structs.Executor that blocks a caller on a single
// task id instead of making them drain the shared event queue
// themselves.
package runner

import (
	"context"
	"time"

	"github.com/nattofriends/task-processing/structs"
)

// Sync runs one task at a time and blocks until that task's terminal
// Event arrives, filtering out (and re-publishing) Events belonging to
// other tasks in flight on the same underlying executor.
type Sync struct {
	executor structs.Executor
}

// NewSync wraps executor for synchronous single-task use.
func NewSync(executor structs.Executor) *Sync {
	return &Sync{executor: executor}
}

// Run submits cfg to the underlying executor and blocks until its
// terminal Event arrives, or ctx is done. Non-matching Events popped off
// the shared queue along the way are pushed back so other consumers (or
// a later call to Run) still see them.
func (s *Sync) Run(ctx context.Context, cfg structs.TaskConfig) (structs.Event, error) {
	if err := s.executor.Run(cfg); err != nil {
		return structs.Event{}, err
	}

	taskID := cfg.TaskID()
	q := s.executor.EventQueue()

	for {
		ev, err := q.Pop(ctx)
		if err != nil {
			return structs.Event{}, err
		}

		if ev.TaskID != taskID {
			q.Push(ev)
			// Somebody else (another Sync.Run, or nothing at all) may
			// own this event; back off briefly rather than spin
			// re-popping our own non-match forever.
			select {
			case <-ctx.Done():
				return structs.Event{}, ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if ev.Terminal {
			return ev, nil
		}
	}
}

// Kill is a no-op: the synchronous runner has no identity of its own to
// kill by, matching the reference runner's behavior. Callers that need
// to kill an in-flight task should call the underlying executor's Kill
// directly.
func (s *Sync) Kill(string) error { return nil }

// Stop propagates to the underlying executor.
func (s *Sync) Stop() error {
	return s.executor.Stop()
}
