// Package testlog provides a logger that writes to a testing.T's log, the
// same shape as nomad's helper/testlog package (whose call sites,
// testlog.HCLogger(t), appear throughout the teacher's test corpus).
package testlog

import (
	"testing"

	"github.com/hashicorp/go-hclog"
)

// HCLogger returns an hclog.Logger that writes through t.Logf, so test
// output only shows up (and is only attributed to) the test that produced
// it.
func HCLogger(t testing.TB) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            t.Name(),
		Level:           hclog.Trace,
		Output:          testWriter{t},
		IncludeLocation: true,
	})
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Logf("%s", p)
	return len(p), nil
}
