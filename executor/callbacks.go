package executor

import (
	mesos "github.com/mesos/mesos-go/mesosproto"

	"github.com/nattofriends/task-processing/metrics"
)

// Registered remembers the driver reference handed to it by the
// external scheduler driver, on its own callback thread.
func (f *Framework) Registered(driver Driver, frameworkID *mesos.FrameworkID, masterInfo *mesos.MasterInfo) {
	f.mu.Lock()
	f.driver = driver
	f.mu.Unlock()
	f.logger.Info("registered", "framework_id", frameworkID.GetValue())
}

// Reregistered re-records the driver reference and logs; it changes no
// task state.
func (f *Framework) Reregistered(driver Driver, masterInfo *mesos.MasterInfo) {
	f.mu.Lock()
	f.driver = driver
	f.mu.Unlock()
	f.logger.Info("reregistered")
}

// Disconnected is logged but otherwise a no-op.
func (f *Framework) Disconnected(driver Driver) {
	f.logger.Warn("disconnected from master")
}

// SlaveLost is logged but otherwise a no-op.
func (f *Framework) SlaveLost(driver Driver, slaveID *mesos.SlaveID) {
	f.logger.Warn("slave lost", "slave_id", slaveID.GetValue())
}

// ExecutorLost is logged but otherwise a no-op.
func (f *Framework) ExecutorLost(driver Driver, executorID *mesos.ExecutorID, slaveID *mesos.SlaveID, status int) {
	f.logger.Warn("executor lost", "executor_id", executorID.GetValue(), "slave_id", slaveID.GetValue())
}

// FrameworkMessage is logged but otherwise a no-op: this framework has
// no executor-side message protocol of its own.
func (f *Framework) FrameworkMessage(driver Driver, executorID *mesos.ExecutorID, slaveID *mesos.SlaveID, data string) {
	f.logger.Debug("framework message", "executor_id", executorID.GetValue())
}

// OfferRescinded is logged but otherwise a no-op: the rescinded offer
// simply never reaches resourceOffers.
func (f *Framework) OfferRescinded(driver Driver, offerID *mesos.OfferID) {
	f.logger.Debug("offer rescinded", "offer_id", offerID.GetValue())
}

// Error logs a driver-reported error.
func (f *Framework) Error(driver Driver, message string) {
	f.logger.Error("driver error", "message", message)
}

// ResourceOffers decides, per offer, whether to decline or launch. An
// offer is declined immediately when its slave is blacklisted or it
// doesn't match the configured pool; otherwise getTasksToLaunch is
// given a chance to fill it. If nothing launched across this whole
// batch and suppressAfter has elapsed since the last matching offer,
// offers are suppressed.
func (f *Framework) ResourceOffers(driver Driver, offers []*mesos.Offer) {
	if f.isStopping() {
		for _, offer := range offers {
			f.decline(driver, offer)
		}
		return
	}

	now := f.clock()
	launchedAny := false

	for _, offer := range offers {
		slaveID := offer.GetSlaveId().GetValue()
		if f.blacklist.Contains(slaveID) || !f.offerMatchesPool(offer) {
			f.decline(driver, offer)
			continue
		}

		tasks := f.getTasksToLaunch(offer)
		if len(tasks) == 0 {
			f.decline(driver, offer)
			continue
		}

		offerIDs := []*mesos.OfferID{offer.Id}
		if _, err := driver.LaunchTasks(offerIDs, tasks, f.declineFilter); err != nil {
			f.logger.Error("launch failed", "error", err)
			continue
		}

		f.mu.Lock()
		delay := now - f.lastOfferTime
		f.lastOfferTime = now
		f.mu.Unlock()

		f.metrics.RecordTiming(metrics.OfferDelayTimer, delay)
		f.metrics.IncrCounter(metrics.TaskLaunchedCount, float64(len(tasks)))
		launchedAny = true
	}

	if launchedAny {
		f.mu.Lock()
		f.areOffersSuppressed = false
		f.mu.Unlock()
		return
	}

	f.mu.Lock()
	elapsed := now-f.lastOfferTime >= f.suppressAfter.Seconds()
	suppressed := f.areOffersSuppressed
	f.mu.Unlock()

	if !suppressed && elapsed {
		if _, err := driver.SuppressOffers(); err != nil {
			f.logger.Warn("failed to suppress offers", "error", err)
		}
		f.mu.Lock()
		f.areOffersSuppressed = true
		f.mu.Unlock()
	}
}

func (f *Framework) decline(driver Driver, offer *mesos.Offer) {
	if _, err := driver.DeclineOffer(offer.Id, f.declineFilter); err != nil {
		f.logger.Warn("failed to decline offer", "offer_id", offer.Id.GetValue(), "error", err)
	}
}

// StatusUpdate looks up task_id; if unknown, still acknowledges (a
// duplicate or post-terminal update) and returns. Otherwise it
// translates the update, replaces the metadata's state, and — if the
// translated Event is terminal — removes the metadata and increments
// the matching terminal counter before publishing the Event.
func (f *Framework) StatusUpdate(driver Driver, status *mesos.TaskStatus) {
	defer func() {
		if _, err := driver.AcknowledgeStatusUpdate(status); err != nil {
			f.logger.Warn("failed to acknowledge status update", "error", err)
		}
	}()

	taskID := status.GetTaskId().GetValue()
	md, ok := f.registry.Get(taskID)
	if !ok {
		return
	}

	ev, err := f.translator.Translate(status)
	if err != nil {
		f.logger.Error("failed to translate status update", "task_id", taskID, "error", err)
		return
	}
	ev = ev.WithTaskID(taskID).WithTaskConfig(md.TaskConfig)

	if ev.Terminal {
		if err := f.registry.Delete(taskID); err != nil {
			f.logger.Warn("failed to remove terminal task metadata", "task_id", taskID, "error", err)
		}
		f.metrics.IncrCounter(terminalCounterName(status.GetState()), 1)
	} else {
		updated := md.WithState(status.GetState().String(), f.clock())
		if err := f.registry.Put(taskID, updated); err != nil {
			f.logger.Warn("failed to record status update", "task_id", taskID, "error", err)
		}
	}

	f.eventQueue.Push(ev)
}

func terminalCounterName(state mesos.TaskState) string {
	switch state {
	case mesos.TaskState_TASK_FINISHED:
		return metrics.TaskFinishedCount
	case mesos.TaskState_TASK_KILLED:
		return metrics.TaskKilledCount
	case mesos.TaskState_TASK_LOST:
		return metrics.TaskLostCount
	case mesos.TaskState_TASK_ERROR:
		return metrics.TaskErrorCount
	default:
		return metrics.TaskFailedCount
	}
}
