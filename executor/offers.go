package executor

import (
	mesos "github.com/mesos/mesos-go/mesosproto"

	"github.com/nattofriends/task-processing/launch"
	"github.com/nattofriends/task-processing/metrics"
	"github.com/nattofriends/task-processing/structs"
)

// getTasksToLaunch drains the task queue in FIFO order against offer's
// resources, returning one TaskInfo per task that fit. A candidate that
// doesn't fit is pushed back to the head of the queue and
// TaskInsufficientOfferCount is incremented; draining then stops, since
// remaining queue order must be preserved for the next offer.
func (f *Framework) getTasksToLaunch(offer *mesos.Offer) []*mesos.TaskInfo {
	res := launch.Summarize(offer)

	var out []*mesos.TaskInfo
	for {
		cfg, ok := f.taskQueue.PopFront()
		if !ok {
			break
		}

		if !launch.Fits(res, cfg) {
			f.taskQueue.PushFront(cfg)
			f.metrics.IncrCounter(metrics.TaskInsufficientOfferCount, 1)
			break
		}

		ports, ok := launch.Assign(res, cfg)
		if !ok {
			f.taskQueue.PushFront(cfg)
			f.metrics.IncrCounter(metrics.TaskInsufficientOfferCount, 1)
			break
		}

		taskID := cfg.TaskID()
		if md, ok := f.registry.Get(taskID); ok {
			f.metrics.RecordTiming(metrics.TaskQueuedTimeTimer, f.clock()-md.TaskStateTS)
			if err := f.registry.Put(taskID, md.WithAgentID(res.SlaveID)); err != nil {
				f.logger.Warn("failed to record agent id", "task_id", taskID, "error", err)
			}
		}

		out = append(out, launch.Build(res, cfg, ports))
		res = subtract(res, cfg, ports)
	}
	return out
}

// subtract returns a copy of res with cfg's resources and the assigned
// ports removed, so the next candidate in this same offer is matched
// against what's left.
func subtract(res launch.OfferResources, cfg structs.TaskConfig, assigned []int32) launch.OfferResources {
	res.CPUs -= cfg.CPUs
	res.Mem -= cfg.Mem
	res.Disk -= cfg.Disk

	used := make(map[int32]bool, len(assigned))
	for _, p := range assigned {
		used[p] = true
	}
	remaining := res.Ports[:0:0]
	for _, p := range res.Ports {
		if !used[p] {
			remaining = append(remaining, p)
		}
	}
	res.Ports = remaining
	return res
}
