package tui

import (
	"time"

	"github.com/agbru/fibseq/internal/generator"
)

// TermMsg carries one generator progress update to the model.
type TermMsg struct {
	Update     generator.ProgressUpdate
	Progress   float64
	ETA        time.Duration
	Generation uint64
}

// ProbeMsg carries one memory probe sample.
type ProbeMsg struct {
	Usage uint64
	Err   error
}

// SysStatsMsg carries a system-wide CPU and memory snapshot.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// TickMsg drives periodic sampling and the elapsed clock.
type TickMsg time.Time

// RunCompleteMsg is sent once Generate has returned.
type RunCompleteMsg struct {
	Result     generator.Result
	Elapsed    time.Duration
	Generation uint64
}

// ContextCancelledMsg is sent when the session context is done.
type ContextCancelledMsg struct {
	Err error
}
