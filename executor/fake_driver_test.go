package executor

import (
	"sync"

	mesos "github.com/mesos/mesos-go/mesosproto"
)

// fakeDriver records every call made to it, the Go analogue of the
// reference test suite's mock.Mock(spec=[...]) fake_driver fixture.
type fakeDriver struct {
	mu sync.Mutex

	LaunchedOfferIDs [][]*mesos.OfferID
	LaunchedTasks    [][]*mesos.TaskInfo
	Declined         []*mesos.OfferID
	Killed           []*mesos.TaskID
	Revived          int
	Suppressed       int
	Acknowledged     []*mesos.TaskStatus

	// KillErr, if set, is consulted per task_id before recording a kill;
	// a non-nil return fails that KillTask call without recording it.
	KillErr func(taskID string) error
}

func (d *fakeDriver) LaunchTasks(offerIDs []*mesos.OfferID, tasks []*mesos.TaskInfo, filters *mesos.Filters) (mesos.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.LaunchedOfferIDs = append(d.LaunchedOfferIDs, offerIDs)
	d.LaunchedTasks = append(d.LaunchedTasks, tasks)
	return mesos.Status_DRIVER_RUNNING, nil
}

func (d *fakeDriver) DeclineOffer(offerID *mesos.OfferID, filters *mesos.Filters) (mesos.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Declined = append(d.Declined, offerID)
	return mesos.Status_DRIVER_RUNNING, nil
}

func (d *fakeDriver) KillTask(taskID *mesos.TaskID) (mesos.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.KillErr != nil {
		if err := d.KillErr(taskID.GetValue()); err != nil {
			return mesos.Status_DRIVER_RUNNING, err
		}
	}
	d.Killed = append(d.Killed, taskID)
	return mesos.Status_DRIVER_RUNNING, nil
}

func (d *fakeDriver) ReviveOffers() (mesos.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Revived++
	return mesos.Status_DRIVER_RUNNING, nil
}

func (d *fakeDriver) SuppressOffers() (mesos.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Suppressed++
	return mesos.Status_DRIVER_RUNNING, nil
}

func (d *fakeDriver) AcknowledgeStatusUpdate(status *mesos.TaskStatus) (mesos.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Acknowledged = append(d.Acknowledged, status)
	return mesos.Status_DRIVER_RUNNING, nil
}

func (d *fakeDriver) launchCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.LaunchedTasks)
}

func (d *fakeDriver) declineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Declined)
}

func (d *fakeDriver) killCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Killed)
}
