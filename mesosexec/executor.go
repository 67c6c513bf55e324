// Package mesosexec is the cluster-facing wiring layer: it owns the
// real Mesos scheduler driver, registers executor.Framework as its
// Scheduler, loads credentials, and exposes the plain
// structs.Executor contract (Run/Kill/Stop/EventQueue) the rest of the
// module depends on rather than a concrete driver type.
package mesosexec

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	mesos "github.com/mesos/mesos-go/mesosproto"
	"github.com/mesos/mesos-go/scheduler"

	"github.com/nattofriends/task-processing/executor"
	"github.com/nattofriends/task-processing/metrics"
	"github.com/nattofriends/task-processing/structs"
	"github.com/nattofriends/task-processing/translate"
)

// Config describes everything needed to register a framework with a
// live Mesos master and start its driver thread.
type Config struct {
	Name string
	Role string
	User string

	// MesosMaster is the "host:port" (or ZK URL) of the Mesos master.
	MesosMaster string

	AuthenticationPrincipal string
	CredentialSecretFile    string

	Pool string

	Logger     hclog.Logger
	Metrics    metrics.Registry
	Translator translate.StatusTranslator

	// FrameworkOptions are passed through to executor.New verbatim, for
	// the knobs mesosexec doesn't expose its own field for (staging
	// timeout, suppress-after, reaper interval, clock override).
	FrameworkOptions []executor.Option
}

// Executor owns a real scheduler.MesosSchedulerDriver and the
// executor.Framework registered against it. It implements
// structs.Executor so callers (the retry layer, the sync runner, or a
// user directly) never need to know a real Mesos driver is underneath.
type Executor struct {
	framework *executor.Framework
	driver    *scheduler.MesosSchedulerDriver
	logger    hclog.Logger
}

// New constructs the framework, the credential, and the scheduler
// driver, and starts the driver's run loop on its own goroutine (the
// "driver thread" spec.md §5 describes). The driver begins receiving
// callbacks on that goroutine immediately; New does not block on
// registration.
func New(cfg Config) (*Executor, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("mesosexec")

	opts := append([]executor.Option{}, cfg.FrameworkOptions...)
	if cfg.Pool != "" {
		opts = append(opts, executor.WithPool(cfg.Pool))
	}
	if cfg.Logger != nil {
		opts = append(opts, executor.WithLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		opts = append(opts, executor.WithMetrics(cfg.Metrics))
	}
	if cfg.Translator != nil {
		opts = append(opts, executor.WithTranslator(cfg.Translator))
	}

	fw, err := executor.New(cfg.Name, cfg.Role, opts...)
	if err != nil {
		return nil, fmt.Errorf("mesosexec: building execution framework: %w", err)
	}

	principal := cfg.AuthenticationPrincipal
	if principal == "" {
		principal = "taskproc"
	}
	credential := LoadCredential(principal, cfg.CredentialSecretFile, logger)

	info := fw.FrameworkInfo()
	if cfg.User != "" {
		user := cfg.User
		info.User = &user
	}

	driver, err := scheduler.NewMesosSchedulerDriver(scheduler.DriverConfig{
		Scheduler:  &schedulerAdapter{fw: fw},
		Framework:  info,
		Master:     cfg.MesosMaster,
		Credential: credential,
	})
	if err != nil {
		return nil, fmt.Errorf("mesosexec: building scheduler driver: %w", err)
	}

	e := &Executor{framework: fw, driver: driver, logger: logger}

	// Driver thread: owns the scheduler client loop and invokes every
	// Scheduler callback. Must never be blocked on by the constructor.
	go func() {
		if _, err := driver.Run(); err != nil {
			logger.Error("scheduler driver exited", "error", err)
		}
	}()

	// Reaper thread: wakes periodically to kill and blacklist tasks
	// stuck in TASK_STAGING. Exits once fw.Stop() is observed.
	go fw.RunReaper()

	return e, nil
}

// Run enqueues cfg onto the underlying execution framework.
func (e *Executor) Run(cfg structs.TaskConfig) error {
	return e.framework.Enqueue(cfg)
}

// Kill forwards to the framework's authoritative kill path (spec.md §9's
// open question: ExecutionFramework.KillTask is the one kill path,
// nothing here maintains its own).
func (e *Executor) Kill(taskID string) error {
	return e.framework.KillTask(taskID)
}

// Stop stops the framework and the driver, in that order, and waits for
// the driver thread to exit.
func (e *Executor) Stop() error {
	e.framework.Stop()

	if _, err := e.driver.Stop(false); err != nil {
		e.logger.Warn("failed to stop scheduler driver", "error", err)
	}
	if _, err := e.driver.Join(); err != nil {
		return fmt.Errorf("mesosexec: waiting for driver to stop: %w", err)
	}
	return nil
}

// EventQueue returns the read side of the framework's Event stream.
func (e *Executor) EventQueue() structs.EventQueue {
	return e.framework.EventQueue()
}

var _ structs.Executor = (*Executor)(nil)
