// Package metrics measures the memory cost of a factorial run.
package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime allocator.
type MemorySnapshot struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	Sys          uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// RunStats is the difference between two snapshots taken around a run.
type RunStats struct {
	HeapAlloc    uint64 // heap in use at the end of the run
	TotalAlloc   uint64 // bytes allocated during the run
	NumGC        uint32 // collections during the run
	PauseTotalNs uint64 // GC pause during the run
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct {
	baseline MemorySnapshot
}

// NewMemoryCollector returns a collector whose baseline is the current state.
func NewMemoryCollector() *MemoryCollector {
	mc := &MemoryCollector{}
	mc.Reset()
	return mc
}

// Reset moves the baseline to now.
func (mc *MemoryCollector) Reset() {
	mc.baseline = mc.Snapshot()
}

// Snapshot reads the current statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// Since returns what changed between the baseline and now.
func (mc *MemoryCollector) Since() RunStats {
	now := mc.Snapshot()
	return RunStats{
		HeapAlloc:    now.HeapAlloc,
		TotalAlloc:   now.TotalAlloc - mc.baseline.TotalAlloc,
		NumGC:        now.NumGC - mc.baseline.NumGC,
		PauseTotalNs: now.PauseTotalNs - mc.baseline.PauseTotalNs,
	}
}
