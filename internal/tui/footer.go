package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibseq/internal/generator"
)

// FooterModel renders the run status and the key help.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	paused bool
	done   bool
	cause  generator.Cause
	width  int
}

// NewFooterModel creates a footer for km.
func NewFooterModel(km KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = accentStyle
	h.Styles.ShortDesc = dimStyle
	h.Styles.ShortSeparator = dimStyle
	return FooterModel{help: h, keymap: km}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetPaused updates the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the run finished with cause.
func (f *FooterModel) SetDone(cause generator.Cause) {
	f.done = true
	f.cause = cause
}

// Reset returns the footer to the running state.
func (f *FooterModel) Reset() {
	f.done = false
	f.paused = false
	f.cause = generator.CauseNone
}

// Status returns the plain status label.
func (f FooterModel) Status() string {
	switch {
	case f.done && f.cause == generator.CauseTimeout:
		return "TIMEOUT"
	case f.done && f.cause == generator.CauseMemoryLimit:
		return "MEMORY LIMIT"
	case f.done:
		return "COMPLETE"
	case f.paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	style := statusRunningStyle
	switch {
	case f.done && f.cause != generator.CauseNone:
		style = statusCutStyle
	case f.done:
		style = statusDoneStyle
	case f.paused:
		style = statusPausedStyle
	}
	status := style.Render(" " + f.Status() + " ")
	return lipgloss.JoinHorizontal(lipgloss.Top, status, " ", f.help.View(f.keymap))
}
