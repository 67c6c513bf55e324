package metrics

import (
	gometrics "github.com/armon/go-metrics"
)

// Tagged wraps the process-wide armon/go-metrics sink with a fixed set of
// base labels, the same way nomad's task runner carries a baseLabels
// []metrics.Label and calls IncrCounterWithLabels at every state
// transition (client/allocrunnerv2/taskrunner/task_runner.go).
type Tagged struct {
	Prefix []string
	Labels []gometrics.Label
}

// NewTagged builds a Tagged registry whose every metric is prefixed with
// prefix and tagged with the given framework_name/framework_role-style
// labels.
func NewTagged(prefix []string, labels map[string]string) Tagged {
	tagged := make([]gometrics.Label, 0, len(labels))
	for k, v := range labels {
		tagged = append(tagged, gometrics.Label{Name: k, Value: v})
	}
	return Tagged{Prefix: append([]string(nil), prefix...), Labels: tagged}
}

func (t Tagged) key(name string) []string {
	key := make([]string, 0, len(t.Prefix)+1)
	key = append(key, t.Prefix...)
	return append(key, name)
}

func (t Tagged) IncrCounter(name string, delta float64) {
	gometrics.IncrCounterWithLabels(t.key(name), float32(delta), t.Labels)
}

func (t Tagged) RecordTiming(name string, seconds float64) {
	gometrics.AddSampleWithLabels(t.key(name), float32(seconds), t.Labels)
}
