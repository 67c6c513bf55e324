package executor

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/nattofriends/task-processing/metrics"
	"github.com/nattofriends/task-processing/structs"
)

// KillTasksStuckInStaging kills and blacklists every task whose metadata
// is still TASK_STAGING after taskStagingTimeout has elapsed since its
// last state change. It takes one consistent snapshot of the registry
// so a concurrent status update can't leave it with a half-updated view.
// A kill failure for one stuck task doesn't stop the pass from reaping
// the rest; every failure across the pass is aggregated into the
// returned error.
func (f *Framework) KillTasksStuckInStaging() error {
	snapshot, err := f.registry.Snapshot()
	if err != nil {
		return fmt.Errorf("reaper: snapshotting registry: %w", err)
	}

	var result *multierror.Error
	now := f.clock()
	for taskID, md := range snapshot {
		if md.TaskState != structs.TaskStateStaging {
			continue
		}
		if now-md.TaskStateTS <= f.taskStagingTimeout.Seconds() {
			continue
		}

		if err := f.KillTask(taskID); err != nil {
			result = multierror.Append(result, fmt.Errorf("killing stuck task %s: %w", taskID, err))
			continue
		}
		f.BlacklistSlave(md.AgentID, f.stuckKillTimeout)
		f.metrics.IncrCounter(metrics.TaskStuckCount, 1)
	}
	return result.ErrorOrNil()
}

// RunReaper loops KillTasksStuckInStaging on f.reaperInterval until Stop
// has been observed. Intended to run on its own goroutine, started
// alongside the driver.
func (f *Framework) RunReaper() {
	ticker := time.NewTicker(f.reaperInterval)
	defer ticker.Stop()

	for !f.isStopping() {
		<-ticker.C
		if f.isStopping() {
			return
		}
		if err := f.KillTasksStuckInStaging(); err != nil {
			f.logger.Error("reaper pass had failures", "error", err)
		}
	}
}
