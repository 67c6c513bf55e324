package persistence

import (
	"path/filepath"
	"testing"

	"github.com/shoenig/test/must"

	"github.com/nattofriends/task-processing/structs"
)

func openTestBolt(t *testing.T) *BoltPersister {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	p, err := OpenBolt(path)
	must.NoError(t, err)
	t.Cleanup(func() { must.NoError(t, p.Close()) })
	return p
}

func TestBoltPersister_WriteReadRoundTrip(t *testing.T) {
	p := openTestBolt(t)

	cfg, err := structs.NewTaskConfig("task", "image", "cmd", 1, 64, 10)
	must.NoError(t, err)

	ev1 := structs.Event{
		TaskID:       cfg.TaskID(),
		TaskConfig:   cfg,
		Terminal:     false,
		PlatformType: "mesos",
		Kind:         structs.KindTask,
		Extensions:   map[string]string{"mesos_state": "TASK_STAGING"},
	}
	ev2 := ev1.WithExtension("mesos_state", "TASK_RUNNING")
	ev3 := structs.Event{
		TaskID:       cfg.TaskID(),
		TaskConfig:   cfg,
		Terminal:     true,
		Success:      true,
		PlatformType: "mesos",
		Kind:         structs.KindTask,
	}

	must.NoError(t, p.Write(ev1))
	must.NoError(t, p.Write(ev2))
	must.NoError(t, p.Write(ev3))

	got, err := p.Read(Key(cfg))
	must.NoError(t, err)
	must.Len(t, 3, got)
	must.Eq(t, "TASK_STAGING", got[0].Extensions["mesos_state"])
	must.Eq(t, "TASK_RUNNING", got[1].Extensions["mesos_state"])
	must.True(t, got[2].Terminal)
	must.True(t, got[2].Success)
	must.Eq(t, cfg, got[2].TaskConfig)
}

func TestBoltPersister_ReadUnknownTaskReturnsEmpty(t *testing.T) {
	p := openTestBolt(t)

	got, err := p.Read("nonexistent:key")
	must.NoError(t, err)
	must.Len(t, 0, got)
}

func TestBoltPersister_WritePreservesOrderAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	p, err := OpenBolt(path)
	must.NoError(t, err)

	cfg, err := structs.NewTaskConfig("reopen", "image", "cmd", 1, 64, 10)
	must.NoError(t, err)

	must.NoError(t, p.Write(structs.Event{TaskID: cfg.TaskID(), TaskConfig: cfg, Kind: structs.KindTask}))
	must.NoError(t, p.Close())

	reopened, err := OpenBolt(path)
	must.NoError(t, err)
	defer func() { must.NoError(t, reopened.Close()) }()

	must.NoError(t, reopened.Write(structs.Event{TaskID: cfg.TaskID(), TaskConfig: cfg, Terminal: true, Success: true, Kind: structs.KindTask}))

	got, err := reopened.Read(Key(cfg))
	must.NoError(t, err)
	must.Len(t, 2, got)
	must.False(t, got[0].Terminal)
	must.True(t, got[1].Terminal)
}
