package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
)

// HeaderModel renders the top bar: title, range, algorithm, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	rng       generator.Range
	algo      string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, r generator.Range, algo string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		rng:       r,
		algo:      algo,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once it is done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "fibseq"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}

	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText) +
		pipe + accentStyle.Render("F"+h.rng.String()) +
		pipe + dimStyle.Render(h.algo) +
		pipe + accentStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	gap := max(h.width-2-lipgloss.Width(left), 0)
	return headerStyle.Width(h.width).Render(left + strings.Repeat(" ", gap))
}
