//go:generate mockgen -source=probe.go -destination=mocks/mock_probe.go -package=mocks

package metrics

// MemoryProbe samples the current memory usage of the process. The
// generator consults it once per term, before the term is computed.
type MemoryProbe interface {
	// Name identifies the probe in logs and traces.
	Name() string
	// Usage returns the sampled usage in bytes.
	Usage() (uint64, error)
}

// ProbeFunc adapts a function to MemoryProbe.
type ProbeFunc func() (uint64, error)

// Name implements MemoryProbe.
func (f ProbeFunc) Name() string { return "func" }

// Usage implements MemoryProbe.
func (f ProbeFunc) Usage() (uint64, error) { return f() }

// StaticProbe always reports the same value.
type StaticProbe uint64

// Name implements MemoryProbe.
func (StaticProbe) Name() string { return "static" }

// Usage implements MemoryProbe.
func (p StaticProbe) Usage() (uint64, error) { return uint64(p), nil }
