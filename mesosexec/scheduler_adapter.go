package mesosexec

import (
	mesos "github.com/mesos/mesos-go/mesosproto"
	"github.com/mesos/mesos-go/scheduler"

	"github.com/nattofriends/task-processing/executor"
)

// schedulerAdapter satisfies scheduler.Scheduler by forwarding every
// callback to executor.Framework. scheduler.Scheduler's methods take the
// full scheduler.SchedulerDriver; executor.Framework's own methods take
// this package's narrow executor.Driver so it stays unit-testable with a
// plain fake. scheduler.SchedulerDriver's method set is a superset of
// executor.Driver's (same LaunchTasks/DeclineOffer/KillTask/ReviveOffers/
// SuppressOffers/AcknowledgeStatusUpdate signatures), so the value passes
// straight through with no further wrapping.
type schedulerAdapter struct {
	fw *executor.Framework
}

func (a *schedulerAdapter) Registered(driver scheduler.SchedulerDriver, frameworkID *mesos.FrameworkID, masterInfo *mesos.MasterInfo) {
	a.fw.Registered(driver, frameworkID, masterInfo)
}

func (a *schedulerAdapter) Reregistered(driver scheduler.SchedulerDriver, masterInfo *mesos.MasterInfo) {
	a.fw.Reregistered(driver, masterInfo)
}

func (a *schedulerAdapter) Disconnected(driver scheduler.SchedulerDriver) {
	a.fw.Disconnected(driver)
}

func (a *schedulerAdapter) ResourceOffers(driver scheduler.SchedulerDriver, offers []*mesos.Offer) {
	a.fw.ResourceOffers(driver, offers)
}

func (a *schedulerAdapter) OfferRescinded(driver scheduler.SchedulerDriver, offerID *mesos.OfferID) {
	a.fw.OfferRescinded(driver, offerID)
}

func (a *schedulerAdapter) StatusUpdate(driver scheduler.SchedulerDriver, status *mesos.TaskStatus) {
	a.fw.StatusUpdate(driver, status)
}

func (a *schedulerAdapter) FrameworkMessage(driver scheduler.SchedulerDriver, executorID *mesos.ExecutorID, slaveID *mesos.SlaveID, data string) {
	a.fw.FrameworkMessage(driver, executorID, slaveID, data)
}

func (a *schedulerAdapter) SlaveLost(driver scheduler.SchedulerDriver, slaveID *mesos.SlaveID) {
	a.fw.SlaveLost(driver, slaveID)
}

func (a *schedulerAdapter) ExecutorLost(driver scheduler.SchedulerDriver, executorID *mesos.ExecutorID, slaveID *mesos.SlaveID, status int) {
	a.fw.ExecutorLost(driver, executorID, slaveID, status)
}

func (a *schedulerAdapter) Error(driver scheduler.SchedulerDriver, message string) {
	a.fw.Error(driver, message)
}

var _ scheduler.Scheduler = (*schedulerAdapter)(nil)
