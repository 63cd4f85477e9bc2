// Package sysmon samples operating-system level resource usage: system-wide
// CPU and memory load, and the resident set size of this process.
package sysmon

import (
	"fmt"
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 `json:"cpuPercent"` // 0.0 .. 100.0
	MemPercent float64 `json:"memPercent"` // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// RSSProbe reports the current resident set size of this process.
// It satisfies metrics.MemoryProbe.
type RSSProbe struct {
	once sync.Once
	proc *process.Process
	err  error
}

// NewRSSProbe returns a probe for the running process.
func NewRSSProbe() *RSSProbe {
	return &RSSProbe{}
}

// Name returns "rss".
func (p *RSSProbe) Name() string { return "rss" }

// Usage returns the resident set size in bytes.
func (p *RSSProbe) Usage() (uint64, error) {
	p.once.Do(func() {
		p.proc, p.err = process.NewProcess(int32(os.Getpid()))
	})
	if p.err != nil {
		return 0, fmt.Errorf("open process: %w", p.err)
	}
	info, err := p.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("read memory info: %w", err)
	}
	return info.RSS, nil
}
