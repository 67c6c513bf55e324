package persistence

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"
	bolt "go.etcd.io/bbolt"

	"github.com/nattofriends/task-processing/structs"
)

var bucketName = []byte("events")

var msgpackHandle codec.MsgpackHandle

// record is the durable, msgpack-encoded shape of an Event. Raw is
// deliberately dropped: it's an opaque platform payload (a
// *mesosproto.TaskStatus today) with no stable encoding contract across
// cluster backends, so it isn't part of what gets persisted.
type record struct {
	Terminal     bool
	PlatformType string
	TaskID       string
	TaskConfig   structs.TaskConfig
	Kind         structs.Kind
	Success      bool
	Extensions   map[string]string
}

func toRecord(ev structs.Event) record {
	return record{
		Terminal:     ev.Terminal,
		PlatformType: ev.PlatformType,
		TaskID:       ev.TaskID,
		TaskConfig:   ev.TaskConfig,
		Kind:         ev.Kind,
		Success:      ev.Success,
		Extensions:   ev.Extensions,
	}
}

func (r record) toEvent() structs.Event {
	return structs.Event{
		Terminal:     r.Terminal,
		PlatformType: r.PlatformType,
		TaskID:       r.TaskID,
		TaskConfig:   r.TaskConfig,
		Kind:         r.Kind,
		Success:      r.Success,
		Extensions:   r.Extensions,
	}
}

// BoltPersister is the reference Persister implementation: one bbolt
// bucket holding a msgpack-encoded slice of records per task key,
// appended to on every Write.
type BoltPersister struct {
	db *bolt.DB
}

// OpenBolt opens (creating if necessary) a bbolt database at path and
// ensures the events bucket exists.
func OpenBolt(path string) (*BoltPersister, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("persistence: creating bucket: %w", err)
	}

	return &BoltPersister{db: db}, nil
}

func (p *BoltPersister) Close() error {
	return p.db.Close()
}

// Write appends ev to the history for its task, read-modify-write
// inside a single bbolt transaction.
func (p *BoltPersister) Write(ev structs.Event) error {
	key := []byte(Key(ev.TaskConfig))

	return p.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketName)

		records, err := decodeRecords(bkt.Get(key))
		if err != nil {
			return fmt.Errorf("persistence: decoding history for %s: %w", key, err)
		}
		records = append(records, toRecord(ev))

		encoded, err := encodeRecords(records)
		if err != nil {
			return fmt.Errorf("persistence: encoding history for %s: %w", key, err)
		}
		return bkt.Put(key, encoded)
	})
}

// Read returns every Event recorded for taskID (here, the colon-joined
// composite key), oldest first.
func (p *BoltPersister) Read(taskID string) ([]structs.Event, error) {
	var records []record

	err := p.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketName)
		decoded, err := decodeRecords(bkt.Get([]byte(taskID)))
		if err != nil {
			return err
		}
		records = decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persistence: reading history for %s: %w", taskID, err)
	}

	events := make([]structs.Event, len(records))
	for i, r := range records {
		events[i] = r.toEvent()
	}
	return events, nil
}

func decodeRecords(raw []byte) ([]record, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []record
	dec := codec.NewDecoder(bytes.NewReader(raw), &msgpackHandle)
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func encodeRecords(records []record) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, &msgpackHandle)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
