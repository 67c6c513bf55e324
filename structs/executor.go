package structs

import "context"

// EventQueue is the consumer side of a task update stream: an unbounded
// FIFO of Events with one producer and one or more consumers. It is
// implemented by queue.EventQueue; defined here so structs and its
// dependents can refer to the contract without importing queue.
type EventQueue interface {
	Pop(ctx context.Context) (Event, error)
	TryPop() (Event, bool)
	Push(Event)
}

// Executor is the caller-facing contract every executor or wrapping
// executor exposes: run a task, kill a task, stop, and drain the event
// stream. RetryExecutor implements this over an underlying Executor, so
// wrapping composes.
type Executor interface {
	Run(cfg TaskConfig) error
	Kill(taskID string) error
	Stop() error
	EventQueue() EventQueue
}
