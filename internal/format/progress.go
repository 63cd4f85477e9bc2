package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps estimates derived from very slow early progress.
const maxETA = 24 * time.Hour

// ProgressBar renders progress in [0, 1] as a bar of length runes.
// Values outside the interval are clamped.
func ProgressBar(progress float64, length int) string {
	progress = clamp(progress)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp(progress)*100, FormatETA(eta))
}

// ProgressWithETA tracks the completed fraction of a run and estimates the
// remaining time from an exponentially smoothed progress rate.
type ProgressWithETA struct {
	mu           sync.Mutex
	progress     float64
	progressRate float64 // fraction per second
	startTime    time.Time
	lastUpdate   time.Time
	now          func() time.Time
}

// NewProgressWithETA starts a tracker at zero progress.
func NewProgressWithETA() *ProgressWithETA {
	return newProgressWithClock(time.Now)
}

func newProgressWithClock(now func() time.Time) *ProgressWithETA {
	t := now()
	return &ProgressWithETA{startTime: t, lastUpdate: t, now: now}
}

// UpdateWithETA records the completed fraction and returns it, clamped,
// together with the current estimate.
func (p *ProgressWithETA) UpdateWithETA(value float64) (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	value = clamp(value)
	now := p.now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && value > p.progress {
		rate := (value - p.progress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			const alpha = 0.3
			p.progressRate = alpha*rate + (1-alpha)*p.progressRate
		}
	}
	p.progress = value
	p.lastUpdate = now
	return p.progress, p.etaLocked()
}

// Progress returns the last recorded fraction.
func (p *ProgressWithETA) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// GetETA returns the current estimate without updating.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked()
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return p.now().Sub(p.startTime)
}

func (p *ProgressWithETA) etaLocked() time.Duration {
	if p.progressRate <= 0 || p.progress >= 1 {
		return 0
	}
	eta := time.Duration((1 - p.progress) / p.progressRate * float64(time.Second))
	return min(eta, maxETA)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
