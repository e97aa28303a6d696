// Package sysmon samples machine and process load for the dashboard.
package sysmon

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats is one sample of system-wide and process resource usage.
type Stats struct {
	CPUPercent float64 // 0..100, all cores
	MemPercent float64 // 0..100
	ProcessRSS uint64  // resident set size of this process, bytes
	Goroutines int
}

// Sampler keeps the process handle between samples.
type Sampler struct {
	proc *process.Process
}

// NewSampler returns a sampler for the current process. Process figures are
// left at zero when the handle cannot be opened.
func NewSampler() *Sampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		p = nil
	}
	return &Sampler{proc: p}
}

// Sample takes a snapshot. CPU usage is the delta since the previous call.
// Readings that fail are left at zero.
func (s *Sampler) Sample() Stats {
	st := Stats{Goroutines: runtime.NumGoroutine()}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		st.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		st.MemPercent = vm.UsedPercent
	}
	if s.proc != nil {
		if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
			st.ProcessRSS = mi.RSS
		}
	}
	return st
}
