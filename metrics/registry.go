// Package metrics provides the MetricRegistry seam the execution
// framework and retry executor emit named counters and timers through.
// Collaborators are injected rather than reached for as package globals,
// per spec.md §9's note on not modeling the metric sink as an ambient
// singleton.
package metrics

// Names of the counters and timers the core emits. Kept here, rather than
// inline at each call site, so the public interface (spec.md §6) is
// visible in one place.
const (
	TaskLaunchedCount          = "task_launched_count"
	TaskFinishedCount          = "task_finished_count"
	TaskFailedCount            = "task_failed_count"
	TaskKilledCount            = "task_killed_count"
	TaskLostCount              = "task_lost_count"
	TaskErrorCount             = "task_error_count"
	TaskEnqueuedCount          = "task_enqueued_count"
	TaskInsufficientOfferCount = "task_insufficient_offer_count"
	TaskStuckCount             = "task_stuck_count"
	BlacklistedAgentsCount     = "blacklisted_agents_count"
	TaskQueuedTimeTimer        = "task_queued_time_timer"
	OfferDelayTimer            = "offer_delay_timer"
	RetryAttemptCount          = "retry_attempt_count"
)

// Registry is the abstract metric sink the core depends on. Counters are
// monotonic increments; timers record a duration in seconds.
type Registry interface {
	IncrCounter(name string, delta float64)
	RecordTiming(name string, seconds float64)
}

// Noop discards every metric. Useful for tests and for callers that don't
// want to wire a real backend.
type Noop struct{}

func (Noop) IncrCounter(string, float64)  {}
func (Noop) RecordTiming(string, float64) {}
