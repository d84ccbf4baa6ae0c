package perf

import (
	"runtime"
	"time"
)

// Clock provides the current time. Values returned by time.Now carry a monotonic reading so
// differences between them are safe against wall clock changes.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// MemoryStats is a snapshot of process memory statistics.
type MemoryStats struct {
	// HeapUsed is the number of bytes of allocated heap objects. Budgets compare against it.
	HeapUsed uint64 `json:"heap_used"`
	// HeapTotal is the number of bytes of heap memory obtained from the OS.
	HeapTotal uint64 `json:"heap_total"`
	// Sys is the total number of bytes obtained from the OS.
	Sys uint64 `json:"sys"`
	// NumGC is the number of completed GC cycles.
	NumGC uint32 `json:"num_gc"`
}

// MemoryReader returns the current memory statistics.
type MemoryReader func() MemoryStats

// ReadMemoryStats reads memory statistics from the Go runtime.
func ReadMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		HeapUsed:  m.HeapAlloc,
		HeapTotal: m.HeapSys,
		Sys:       m.Sys,
		NumGC:     m.NumGC,
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
