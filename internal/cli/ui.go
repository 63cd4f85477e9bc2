package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/orchestration"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It decouples DisplayProgress from a specific spinner implementation so
// the progress loop can be tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress animates a spinner with a progress bar, an ETA and the
// last handled index until progressChan is closed. It is meant to run in
// its own goroutine and calls wg.Done on return.
//
// Parameters:
//   - wg: Signalled when the display has stopped.
//   - progressChan: The generator updates, closed when the run is over.
//   - out: The writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan generator.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator()
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last orchestration.AggregatedProgress
	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(FormatProgressSuffix(1, 0, last.Index))
				return
			}
			last = agg.Update(u)
			s.UpdateSuffix(FormatProgressSuffix(last.Value, last.ETA, last.Index))
		case <-ticker.C:
			s.UpdateSuffix(FormatProgressSuffix(agg.Progress(), agg.GetETA(), last.Index))
		}
	}
}

// FormatProgressSuffix renders the text shown next to the spinner.
func FormatProgressSuffix(progress float64, eta time.Duration, index uint64) string {
	return fmt.Sprintf(" %s F(%d)", format.FormatProgressBarWithETA(progress, eta, ProgressBarWidth), index)
}
