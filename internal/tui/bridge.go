package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// It is a no-op until a program has been set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// forwardProgress drains ch until it is closed, turning every update into
// a TermMsg tagged with gen.
func forwardProgress(ref *programRef, ch <-chan generator.ProgressUpdate, gen uint64) {
	agg := orchestration.NewProgressAggregator()
	for u := range ch {
		ap := agg.Update(u)
		ref.Send(TermMsg{
			Update:     u,
			Progress:   ap.Value,
			ETA:        ap.ETA,
			Generation: gen,
		})
	}
}
