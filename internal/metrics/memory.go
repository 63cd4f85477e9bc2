package metrics

import "runtime"

// HeapProbe reports live heap bytes, the Go counterpart of a managed
// runtime's "total allocated memory" figure. It is the default probe.
// Each Usage call reads runtime.MemStats, which briefly stops the world.
type HeapProbe struct {
	read func(*runtime.MemStats)
}

var _ MemoryProbe = (*HeapProbe)(nil)

// NewHeapProbe returns a probe backed by runtime.ReadMemStats.
func NewHeapProbe() *HeapProbe {
	return &HeapProbe{read: runtime.ReadMemStats}
}

// Name implements MemoryProbe.
func (p *HeapProbe) Name() string { return "heap" }

// Usage implements MemoryProbe.
func (p *HeapProbe) Usage() (uint64, error) {
	var m runtime.MemStats
	p.read(&m)
	return m.HeapAlloc, nil
}
