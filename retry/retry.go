// Package retry implements RetryExecutor: a structs.Executor that
// composes over any other structs.Executor, automatically resubmitting
// a failed task with a fresh attempt tag until a retry predicate stops
// matching or the retry budget is exhausted.
package retry

import (
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/nattofriends/task-processing/metrics"
	"github.com/nattofriends/task-processing/queue"
	"github.com/nattofriends/task-processing/structs"
)

// killed marks an original task_id as manually killed: no further
// attempt should be submitted for it, no matter what the retry
// predicate says about its terminal event.
const killed = -1

// Predicate decides whether a terminal Event should be retried. The
// default retries on any non-success terminal event.
type Predicate func(structs.Event) bool

func DefaultPredicate(e structs.Event) bool { return !e.Success }

// Executor wraps an underlying structs.Executor, rewriting task
// identities to carry a "-retry<K>" suffix and deciding, per terminal
// Event, whether to resubmit or republish.
type Executor struct {
	inner      structs.Executor
	predicate  Predicate
	maxRetries int

	logger  hclog.Logger
	metrics metrics.Registry

	mu      sync.Mutex
	retries map[string]int

	src  structs.EventQueue
	dest *queue.EventQueue

	stopping chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	pollInterval time.Duration
}

// Option configures an Executor at construction time.
type Option func(*Executor)

func WithPredicate(p Predicate) Option { return func(e *Executor) { e.predicate = p } }

func WithMaxRetries(n int) Option { return func(e *Executor) { e.maxRetries = n } }

func WithLogger(l hclog.Logger) Option { return func(e *Executor) { e.logger = l } }

func WithMetrics(m metrics.Registry) Option { return func(e *Executor) { e.metrics = m } }

func WithPollInterval(d time.Duration) Option { return func(e *Executor) { e.pollInterval = d } }

// New wraps inner and starts the retry loop goroutine immediately.
func New(inner structs.Executor, opts ...Option) *Executor {
	e := &Executor{
		inner:        inner,
		predicate:    DefaultPredicate,
		maxRetries:   3,
		logger:       hclog.NewNullLogger(),
		metrics:      metrics.Noop{},
		retries:      make(map[string]int),
		src:          inner.EventQueue(),
		dest:         queue.NewEventQueue(),
		stopping:     make(chan struct{}),
		pollInterval: time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("retrying_executor")

	e.wg.Add(1)
	go e.retryLoop()
	return e
}

// Run submits task_config to the underlying executor, tagging it as
// attempt 1 if this is the first submission for its task_id.
func (e *Executor) Run(cfg structs.TaskConfig) error {
	taskID := cfg.TaskID()

	e.mu.Lock()
	if _, ok := e.retries[taskID]; !ok {
		e.retries[taskID] = 1
	}
	attempt := e.retries[taskID]
	e.mu.Unlock()

	return e.inner.Run(cfg.WithUUID(structs.FormatRetryUUID(cfg.UUID, attempt)))
}

// Kill marks task_id as manually killed so no further attempt is ever
// submitted for it, then forwards the kill to the underlying executor.
// A terminal event that races with this is still forwarded to the
// caller: the -1 sentinel only suppresses resubmission, it never
// discards the event itself.
func (e *Executor) Kill(taskID string) error {
	e.mu.Lock()
	e.retries[taskID] = killed
	e.mu.Unlock()

	return e.inner.Kill(taskID)
}

// Stop propagates stop to the underlying executor and joins the retry
// loop goroutine.
func (e *Executor) Stop() error {
	err := e.inner.Stop()
	e.stopOnce.Do(func() { close(e.stopping) })
	e.wg.Wait()
	e.dest.Close()
	return err
}

// EventQueue returns the rewritten, retry-aware event stream.
func (e *Executor) EventQueue() structs.EventQueue {
	return e.dest
}

func (e *Executor) retryLoop() {
	defer e.wg.Done()

	for {
		for {
			ev, ok := e.src.TryPop()
			if !ok {
				break
			}
			e.handle(ev)
		}

		select {
		case <-e.stopping:
			return
		case <-time.After(e.pollInterval):
		}
	}
}

func (e *Executor) handle(ev structs.Event) {
	originalID, attempt, ok := structs.SplitRetryAttempt(ev.TaskID)
	if !ok {
		originalID, attempt = ev.TaskID, 0
	}

	e.mu.Lock()
	current, known := e.retries[originalID]
	e.mu.Unlock()
	if !known {
		return
	}
	if current != killed && current != attempt {
		// Late update from an abandoned attempt. A killed task_id is
		// exempt: its terminal event must still reach the caller even
		// though its attempt number no longer matches anything.
		return
	}

	ev = ev.WithTaskID(originalID)
	if baseUUID, _, ok := structs.SplitRetryAttempt(ev.TaskConfig.UUID); ok {
		ev = ev.WithTaskConfig(ev.TaskConfig.WithUUID(baseUUID))
	}

	if ev.Kind != structs.KindTask {
		e.dest.Push(ev)
		return
	}

	ev = ev.WithExtension("RetryingExecutor/tries", tries(current, e.maxRetries))

	if !ev.Terminal {
		e.dest.Push(ev)
		return
	}

	if current != killed && e.predicate(ev) && current < e.maxRetries {
		// Re-check and resubmit under the lock, so a Kill landing after
		// the read above is neither overwritten nor followed by a new
		// attempt; a killed task falls through and is published.
		e.mu.Lock()
		if e.retries[originalID] == current {
			e.retries[originalID] = current + 1
			err := e.inner.Run(ev.TaskConfig.WithUUID(structs.FormatRetryUUID(ev.TaskConfig.UUID, current+1)))
			e.mu.Unlock()

			e.metrics.IncrCounter(metrics.RetryAttemptCount, 1)
			if err != nil {
				e.logger.Error("failed to resubmit retried task", "task_id", originalID, "error", err)
			}
			return
		}
		e.mu.Unlock()
	}

	e.mu.Lock()
	delete(e.retries, originalID)
	e.mu.Unlock()
	e.dest.Push(ev)
}

func tries(current, max int) string {
	return strconv.Itoa(current) + "/" + strconv.Itoa(max)
}
