//go:build !unix

package sysmon

import "errors"

// PeakRSSProbe is unavailable on this platform.
type PeakRSSProbe struct{}

// NewPeakRSSProbe returns a probe that always fails.
func NewPeakRSSProbe() PeakRSSProbe { return PeakRSSProbe{} }

// Name returns "peakrss".
func (PeakRSSProbe) Name() string { return "peakrss" }

// Usage always fails: getrusage is unix only.
func (PeakRSSProbe) Usage() (uint64, error) {
	return 0, errors.New("peak RSS is not supported on this platform")
}
