// Package persistence implements event-history persistence for tasks:
// every Event a task goes through is appended to durable storage keyed
// by a colon-joined composite identity, so a crashed caller can recover
// what happened to a task after the fact.
package persistence

import "github.com/nattofriends/task-processing/structs"

// Persister durably records a task's Event history.
type Persister interface {
	// Write appends ev to the history for its task.
	Write(ev structs.Event) error

	// Read returns every Event recorded for taskID, oldest first.
	Read(taskID string) ([]structs.Event, error)
}

// Key builds the colon-joined composite identity a Persister indexes
// on: name and uuid joined directly, independent of the dot-joined
// task_id format the cluster-facing side uses.
func Key(cfg structs.TaskConfig) string {
	return cfg.Name + ":" + cfg.UUID
}
