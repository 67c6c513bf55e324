package translate

import (
	mesos "github.com/mesos/mesos-go/mesosproto"

	"github.com/nattofriends/task-processing/structs"
)

// Mesos translates a *mesosproto.TaskStatus into a structs.Event. Which
// states are terminal mirrors the Mesos scheduler's own StatusUpdate
// switch: TASK_LOST/FINISHED/KILLED/ERROR/FAILED end the task's
// lifecycle, everything else (TASK_RUNNING, TASK_STAGING, ...) doesn't.
type Mesos struct{}

func (Mesos) Translate(raw interface{}) (structs.Event, error) {
	status, ok := raw.(*mesos.TaskStatus)
	if !ok {
		return structs.Event{}, errNotTaskStatus
	}

	state := status.GetState()
	terminal, success := classify(state)

	ev := structs.Event{
		Raw:          status,
		Terminal:     terminal,
		PlatformType: "mesos",
		TaskID:       status.GetTaskId().GetValue(),
		Kind:         structs.KindTask,
		Success:      success,
	}
	return ev.WithExtension("mesos_state", state.String()), nil
}

func classify(state mesos.TaskState) (terminal, success bool) {
	switch state {
	case mesos.TaskState_TASK_FINISHED:
		return true, true
	case mesos.TaskState_TASK_LOST,
		mesos.TaskState_TASK_KILLED,
		mesos.TaskState_TASK_ERROR,
		mesos.TaskState_TASK_FAILED:
		return true, false
	default:
		return false, false
	}
}

type translateError string

func (e translateError) Error() string { return string(e) }

const errNotTaskStatus = translateError("translate: raw status is not a *mesosproto.TaskStatus")
