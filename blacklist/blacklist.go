// Package blacklist implements the execution framework's time-bounded
// agent blacklist: an agent added here is excluded from offer matching
// until its timeout elapses, at which point it is removed automatically.
package blacklist

import (
	"sync"
	"time"

	"github.com/hashicorp/go-set/v3"

	"github.com/nattofriends/task-processing/metrics"
)

// Blacklist tracks agent IDs that should be skipped during offer
// matching, each with its own expiry timer.
type Blacklist struct {
	mu      sync.Mutex
	agents  *set.Set[string]
	timers  map[string]*time.Timer
	metrics metrics.Registry
}

func New(registry metrics.Registry) *Blacklist {
	if registry == nil {
		registry = metrics.Noop{}
	}
	return &Blacklist{
		agents:  set.New[string](0),
		timers:  make(map[string]*time.Timer),
		metrics: registry,
	}
}

// Add blacklists agentID for timeout, replacing any existing timer for
// the same agent. A non-positive timeout blacklists indefinitely.
func (b *Blacklist) Add(agentID string, timeout time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.timers[agentID]; ok {
		t.Stop()
		delete(b.timers, agentID)
	}

	b.agents.Insert(agentID)
	b.metrics.IncrCounter(metrics.BlacklistedAgentsCount, 1)

	if timeout > 0 {
		b.timers[agentID] = time.AfterFunc(timeout, func() {
			b.Remove(agentID)
		})
	}
}

// Remove un-blacklists agentID immediately, cancelling any pending
// expiry timer.
func (b *Blacklist) Remove(agentID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.timers[agentID]; ok {
		t.Stop()
		delete(b.timers, agentID)
	}
	b.agents.Remove(agentID)
}

// Contains reports whether agentID is currently blacklisted.
func (b *Blacklist) Contains(agentID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.agents.Contains(agentID)
}

// Len reports the number of currently blacklisted agents.
func (b *Blacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.agents.Size()
}
