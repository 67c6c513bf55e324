// Package registry is the execution framework's in-memory record of
// every task it knows about: what it was launched with, which agent it
// landed on, and its last observed state. It is backed by go-memdb so
// the stuck-task reaper can take a consistent read-only snapshot while
// the driver thread continues to write.
package registry

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/nattofriends/task-processing/structs"
)

const tableTasks = "tasks"

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableTasks: {
				Name: tableTasks,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "TaskID"},
					},
				},
			},
		},
	}
}

// entry is the memdb-stored row. TaskID is derived at Put time so the
// index doesn't depend on a method call memdb can't see.
type entry struct {
	TaskID   string
	Metadata structs.TaskMetadata
}

// Registry is the task metadata store. All methods are safe for
// concurrent use.
type Registry struct {
	db *memdb.MemDB
}

func New() (*Registry, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("building task registry: %w", err)
	}
	return &Registry{db: db}, nil
}

// Put inserts or replaces the metadata for taskID.
func (r *Registry) Put(taskID string, md structs.TaskMetadata) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(tableTasks, entry{TaskID: taskID, Metadata: md}); err != nil {
		return fmt.Errorf("registry put %s: %w", taskID, err)
	}
	txn.Commit()
	return nil
}

// Get returns the metadata for taskID, if present.
func (r *Registry) Get(taskID string) (structs.TaskMetadata, bool) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableTasks, "id", taskID)
	if err != nil || raw == nil {
		return structs.TaskMetadata{}, false
	}
	return raw.(entry).Metadata, true
}

// Delete removes taskID from the registry. It is not an error to delete
// a task that isn't present.
func (r *Registry) Delete(taskID string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(tableTasks, "id", taskID); err != nil {
		return fmt.Errorf("registry delete %s: %w", taskID, err)
	}
	txn.Commit()
	return nil
}

// Snapshot returns every tracked TaskMetadata keyed by task ID, taken
// from a single consistent read transaction. The reaper uses this so a
// concurrent write never leaves it with a half-updated view.
func (r *Registry) Snapshot() (map[string]structs.TaskMetadata, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableTasks, "id")
	if err != nil {
		return nil, fmt.Errorf("registry snapshot: %w", err)
	}

	out := make(map[string]structs.TaskMetadata)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		e := raw.(entry)
		out[e.TaskID] = e.Metadata
	}
	return out, nil
}

// Len reports the number of tracked tasks.
func (r *Registry) Len() (int, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableTasks, "id")
	if err != nil {
		return 0, fmt.Errorf("registry len: %w", err)
	}
	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n, nil
}
