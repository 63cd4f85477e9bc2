//go:build unix

package sysmon

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PeakRSSProbe reports the high-water mark of the resident set size, as
// returned by getrusage(2). The value never decreases, so a run that once
// crossed its ceiling keeps tripping it.
type PeakRSSProbe struct{}

// NewPeakRSSProbe returns a getrusage-backed probe.
func NewPeakRSSProbe() PeakRSSProbe { return PeakRSSProbe{} }

// Name returns "peakrss".
func (PeakRSSProbe) Name() string { return "peakrss" }

// Usage returns the peak resident set size in bytes.
func (PeakRSSProbe) Usage() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, fmt.Errorf("getrusage: %w", err)
	}
	maxRSS := uint64(ru.Maxrss)
	// Darwin reports bytes, every other unix reports kilobytes.
	if runtime.GOOS != "darwin" && runtime.GOOS != "ios" {
		maxRSS *= 1024
	}
	return maxRSS, nil
}
