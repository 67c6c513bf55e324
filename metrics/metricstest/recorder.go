// Package metricstest provides a metrics.Registry test double, the same
// role the original's mock_get_metric fixture plays in
// execution_framework_test.py: assert exactly which named counter/timer
// fired and with what value.
package metricstest

import "sync"

// Recorder records every counter increment and timer value it receives.
type Recorder struct {
	mu       sync.Mutex
	Counters map[string]float64
	Timings  map[string]float64
}

func NewRecorder() *Recorder {
	return &Recorder{Counters: map[string]float64{}, Timings: map[string]float64{}}
}

func (r *Recorder) IncrCounter(name string, delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counters[name] += delta
}

func (r *Recorder) RecordTiming(name string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Timings[name] = seconds
}

func (r *Recorder) Count(name string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Counters[name]
}

func (r *Recorder) Timing(name string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.Timings[name]
	return v, ok
}
