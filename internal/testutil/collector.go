// Package testutil provides test helpers for concurrent code.
//
// Using t.Fatal() or t.FailNow() in goroutines causes undefined behavior
// because these methods call runtime.Goexit() which only terminates the
// current goroutine, not the test goroutine. Loader callbacks run on worker
// goroutines, so their assertions go through a collector instead.
package testutil

import (
	"fmt"
	"sync"
	"testing"
)

// Collector gathers assertion failures from multiple goroutines and reports
// them once, from the test goroutine.
//
// Usage:
//
//	c := testutil.NewCollector()
//	err := l.Run(ctx, func(b *batch.Batch) error {
//	    c.True("shape", len(b.Temporal.Shape) == 3)
//	    return nil
//	})
//	c.Report(t)
type Collector struct {
	mu       sync.Mutex
	failures []string
}

// NewCollector creates a new failure collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Errorf records a failure. Safe to call from any goroutine.
func (c *Collector) Errorf(format string, args ...any) {
	c.mu.Lock()
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
	c.mu.Unlock()
}

// True records a failure unless the condition holds.
func (c *Collector) True(msg string, condition bool) {
	if !condition {
		c.Errorf("%s: expected true", msg)
	}
}

// NoError records a failure when err is non-nil.
func (c *Collector) NoError(msg string, err error) {
	if err != nil {
		c.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// Report reports all collected failures on t. Call from the test goroutine
// after the concurrent work has finished.
func (c *Collector) Report(t *testing.T) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.failures {
		t.Error(f)
	}
}
