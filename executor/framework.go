// Package executor implements the execution framework: the offer
// matching and launch pipeline, in-memory task registry, stuck-task
// reaper, and offer-suppression control loop that together make up the
// core of a Mesos-backed task_processing executor.
package executor

import (
	"fmt"
	"sync"
	"time"

	mesos "github.com/mesos/mesos-go/mesosproto"
	"github.com/hashicorp/go-hclog"

	"github.com/nattofriends/task-processing/blacklist"
	"github.com/nattofriends/task-processing/launch"
	"github.com/nattofriends/task-processing/metrics"
	"github.com/nattofriends/task-processing/queue"
	"github.com/nattofriends/task-processing/registry"
	"github.com/nattofriends/task-processing/structs"
	"github.com/nattofriends/task-processing/translate"
)

// Clock returns the current time as a float64 number of seconds, the
// same unit task_state_ts is recorded in. Tests substitute a
// deterministic clock; production uses wallClock.
type Clock func() float64

// clockStart anchors wallClock: readings are Unix seconds at process
// start plus monotonic time elapsed since, so they never step backwards.
var clockStart = time.Now()

func wallClock() float64 {
	return float64(clockStart.UnixNano())/1e9 + time.Since(clockStart).Seconds()
}

const (
	defaultTaskStagingTimeout = 300 * time.Second
	defaultStuckKillTimeout   = 900 * time.Second
	defaultSuppressAfter      = 5 * time.Second
	defaultReaperInterval     = 30 * time.Second
)

// Framework is the single authority on in-flight task state for one
// framework instance: it translates offers into launches, status
// updates into Events, and keeps the offer tap open only when it has
// work.
type Framework struct {
	name string
	role string
	pool string

	logger  hclog.Logger
	metrics metrics.Registry
	clock   Clock

	registry   *registry.Registry
	taskQueue  *queue.TaskQueue
	eventQueue *queue.EventQueue
	blacklist  *blacklist.Blacklist
	translator translate.StatusTranslator

	declineFilter *mesos.Filters

	taskStagingTimeout time.Duration
	stuckKillTimeout   time.Duration
	suppressAfter      time.Duration
	reaperInterval     time.Duration

	mu                  sync.Mutex
	driver              Driver
	stopping            bool
	areOffersSuppressed bool
	lastOfferTime       float64
}

// Option configures a Framework at construction time.
type Option func(*Framework)

func WithPool(pool string) Option { return func(f *Framework) { f.pool = pool } }

func WithLogger(l hclog.Logger) Option { return func(f *Framework) { f.logger = l } }

func WithMetrics(m metrics.Registry) Option { return func(f *Framework) { f.metrics = m } }

func WithClock(c Clock) Option { return func(f *Framework) { f.clock = c } }

func WithTranslator(t translate.StatusTranslator) Option {
	return func(f *Framework) { f.translator = t }
}

func WithTaskStagingTimeout(d time.Duration) Option {
	return func(f *Framework) { f.taskStagingTimeout = d }
}

func WithSuppressAfter(d time.Duration) Option {
	return func(f *Framework) { f.suppressAfter = d }
}

func WithReaperInterval(d time.Duration) Option {
	return func(f *Framework) { f.reaperInterval = d }
}

// New constructs a Framework for the given framework name and role.
func New(name, role string, opts ...Option) (*Framework, error) {
	reg, err := registry.New()
	if err != nil {
		return nil, fmt.Errorf("executor: building task registry: %w", err)
	}

	f := &Framework{
		name:               name,
		role:               role,
		logger:             hclog.NewNullLogger(),
		metrics:            metrics.Noop{},
		clock:              wallClock,
		registry:           reg,
		taskQueue:          queue.NewTaskQueue(),
		eventQueue:         queue.NewEventQueue(),
		translator:         translate.Mesos{},
		declineFilter:      &mesos.Filters{RefuseSeconds: refuseSeconds(1)},
		taskStagingTimeout: defaultTaskStagingTimeout,
		stuckKillTimeout:   defaultStuckKillTimeout,
		suppressAfter:      defaultSuppressAfter,
		reaperInterval:     defaultReaperInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.blacklist == nil {
		f.blacklist = blacklist.New(f.metrics)
	}
	f.logger = f.logger.Named("execution_framework").With(
		"framework_name", name,
		"framework_role", role,
	)
	return f, nil
}

func refuseSeconds(s float64) *float64 { return &s }

// FrameworkInfo is the registration struct handed to the driver.
func (f *Framework) FrameworkInfo() *mesos.FrameworkInfo {
	name, role := f.name, f.role
	checkpoint := true
	return &mesos.FrameworkInfo{
		Name:       &name,
		Role:       &role,
		Checkpoint: &checkpoint,
	}
}

// EventQueue returns the read side of the Event stream.
func (f *Framework) EventQueue() *queue.EventQueue {
	return f.eventQueue
}

// Enqueue registers cfg (state TASK_INITED, timestamp now), appends it
// to the task queue, and revives offers if they're currently
// suppressed. A duplicate task_id overwrites metadata; callers must use
// fresh uuids.
func (f *Framework) Enqueue(cfg structs.TaskConfig) error {
	taskID := cfg.TaskID()
	md := structs.NewTaskMetadata(cfg, f.clock())
	if err := f.registry.Put(taskID, md); err != nil {
		return fmt.Errorf("executor: enqueue %s: %w", taskID, err)
	}
	f.taskQueue.PushBack(cfg)

	f.mu.Lock()
	suppressed := f.areOffersSuppressed
	driver := f.driver
	if suppressed {
		f.areOffersSuppressed = false
	}
	f.mu.Unlock()

	if suppressed && driver != nil {
		if _, err := driver.ReviveOffers(); err != nil {
			f.logger.Warn("failed to revive offers", "error", err)
		}
	}

	f.metrics.IncrCounter(metrics.TaskEnqueuedCount, 1)
	return nil
}

// KillTask forwards a kill to the driver. The metadata entry is not
// removed here: removal happens when the terminal status update
// arrives. This is the sole authoritative kill path; any outer executor
// wrapping this framework must forward here rather than maintain its
// own kill logic.
func (f *Framework) KillTask(taskID string) error {
	f.mu.Lock()
	driver := f.driver
	f.mu.Unlock()

	if driver == nil {
		return fmt.Errorf("executor: kill %s: no driver registered", taskID)
	}
	id := taskID
	if _, err := driver.KillTask(&mesos.TaskID{Value: &id}); err != nil {
		return fmt.Errorf("executor: kill %s: %w", taskID, err)
	}
	return nil
}

// Stop sets the stopping flag observed by the reaper; no further offers
// are accepted after the flag is seen.
func (f *Framework) Stop() {
	f.mu.Lock()
	f.stopping = true
	f.mu.Unlock()
	f.eventQueue.Close()
}

func (f *Framework) isStopping() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopping
}

// BlacklistSlave adds agentID to the blacklist for timeout, incrementing
// BlacklistedAgentsCount.
func (f *Framework) BlacklistSlave(agentID string, timeout time.Duration) {
	f.blacklist.Add(agentID, timeout)
}

// UnblacklistSlave removes agentID from the blacklist immediately.
func (f *Framework) UnblacklistSlave(agentID string) {
	f.blacklist.Remove(agentID)
}

// offerMatchesPool reports whether offer matches this framework's
// configured pool: any offer matches when no pool is configured,
// otherwise the offer must carry a "pool" attribute equal to it.
func (f *Framework) offerMatchesPool(offer *mesos.Offer) bool {
	if f.pool == "" {
		return true
	}
	pool, ok := launch.Pool(offer)
	return ok && pool == f.pool
}
