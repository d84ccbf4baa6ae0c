package perf_test

import (
	"sync"
	"time"

	"github.com/speakeasy-api/lintperf/perf"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func fixedMemory(heapUsed, heapTotal uint64) perf.MemoryReader {
	return func() perf.MemoryStats {
		return perf.MemoryStats{HeapUsed: heapUsed, HeapTotal: heapTotal}
	}
}

func newTestTracker(clock *fakeClock, opts ...perf.Option) *perf.Tracker {
	opts = append([]perf.Option{
		perf.WithClock(clock),
		perf.WithMemoryReader(fixedMemory(1024, 4096)),
	}, opts...)
	return perf.New(opts...)
}
