package orchestration

import (
	"time"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
)

// ProgressBufferSize is the capacity of progress channels created for the
// CLI. Updates are dropped, never blocked on, when the buffer is full.
const ProgressBufferSize = 64

// ProgressAggregator turns raw generator updates into a completed fraction
// and an ETA. It wraps format.ProgressWithETA.
type ProgressAggregator struct {
	state *format.ProgressWithETA
}

// NewProgressAggregator creates an aggregator for one run.
func NewProgressAggregator() *ProgressAggregator {
	return &ProgressAggregator{state: format.NewProgressWithETA()}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// Index is the sequence index that was just handled.
	Index uint64
	// Value is the completed fraction (0.0 to 1.0).
	Value float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update generator.ProgressUpdate) AggregatedProgress {
	value, eta := a.state.UpdateWithETA(update.Value())
	return AggregatedProgress{Index: update.Index, Value: value, ETA: eta}
}

// Progress returns the current completed fraction without updating.
func (a *ProgressAggregator) Progress() float64 {
	return a.state.Progress()
}

// GetETA returns the current ETA estimate without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// ChannelProgress returns a generator callback that forwards updates to ch
// without blocking the generation loop.
func ChannelProgress(ch chan<- generator.ProgressUpdate) generator.ProgressCallback {
	return func(u generator.ProgressUpdate) {
		select {
		case ch <- u:
		default:
		}
	}
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan generator.ProgressUpdate) {
	for range progressChan {
	}
}
