package executor

import (
	mesos "github.com/mesos/mesos-go/mesosproto"
)

// Driver is the subset of the Mesos scheduler driver the framework
// needs. Cut down to exactly the methods it calls so tests can supply a
// stand-in without dragging in a real scheduler.MesosSchedulerDriver.
type Driver interface {
	LaunchTasks(offerIDs []*mesos.OfferID, tasks []*mesos.TaskInfo, filters *mesos.Filters) (mesos.Status, error)
	DeclineOffer(offerID *mesos.OfferID, filters *mesos.Filters) (mesos.Status, error)
	KillTask(taskID *mesos.TaskID) (mesos.Status, error)
	ReviveOffers() (mesos.Status, error)
	SuppressOffers() (mesos.Status, error)
	AcknowledgeStatusUpdate(status *mesos.TaskStatus) (mesos.Status, error)
}
