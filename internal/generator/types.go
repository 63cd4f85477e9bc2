package generator

import (
	"fmt"
	"time"

	"github.com/agbru/fibseq/internal/fibonacci"
)

// Range is an inclusive span of sequence indices. It is comparable and is
// used directly as a cache key.
type Range struct {
	Start uint64
	End   uint64
}

// Len returns the number of indices covered by r.
func (r Range) Len() uint64 { return r.End - r.Start + 1 }

// String formats r as "[start, end]".
func (r Range) String() string { return fmt.Sprintf("[%d, %d]", r.Start, r.End) }

// Budget bounds a single generation run.
type Budget struct {
	// Timeout is the wall-clock allowance for the whole run. Zero or a
	// negative value leaves the run bound only by its parent context.
	Timeout time.Duration
	// MaxMemory is the ceiling, in bytes, that the memory probe must stay
	// under. Zero disables the check.
	MaxMemory uint64
}

// Cause identifies why a run stopped before exhausting its range.
type Cause int

const (
	// CauseNone means every index was visited.
	CauseNone Cause = iota
	// CauseTimeout means the deadline fired, or the parent context was
	// canceled, before the range was exhausted.
	CauseTimeout
	// CauseMemoryLimit means the probe reported usage at or above the
	// ceiling before a term was computed.
	CauseMemoryLimit
)

// String returns the label used in logs, traces and metrics.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseTimeout:
		return "timeout"
	case CauseMemoryLimit:
		return "memory_limit"
	default:
		return fmt.Sprintf("cause(%d)", int(c))
	}
}

// Result is the outcome of one run. The subsequence holds the terms that
// were committed, in index order, with overflowing indices left out.
type Result struct {
	Subsequence        []fibonacci.Term `json:"subsequence"`
	TimeoutOccurred    bool             `json:"timeoutOccurred"`
	MemoryLimitReached bool             `json:"memoryLimitReached"`
	// Skipped lists the indices dropped because their term overflows.
	Skipped []uint64 `json:"skipped,omitempty"`
	Cause   Cause    `json:"-"`
}

// newResult derives the public flags from cause so that at most one of
// them is ever set.
func newResult(terms []fibonacci.Term, skipped []uint64, cause Cause) Result {
	return Result{
		Subsequence:        terms,
		TimeoutOccurred:    cause == CauseTimeout,
		MemoryLimitReached: cause == CauseMemoryLimit,
		Skipped:            skipped,
		Cause:              cause,
	}
}

// Complete reports whether res holds one term for every index of r.
func (res Result) Complete(r Range) bool {
	return res.Cause == CauseNone && uint64(len(res.Subsequence)) == r.Len()
}

// Entry is one handled index of a Result.
type Entry struct {
	Index   uint64
	Term    fibonacci.Term
	Skipped bool
}

// Entries lists the indices of r that res handled, in index order, each
// paired with its term or marked as skipped. Indices the run never reached
// are left out.
func (res Result) Entries(r Range) []Entry {
	skipped := make(map[uint64]struct{}, len(res.Skipped))
	for _, idx := range res.Skipped {
		skipped[idx] = struct{}{}
	}

	n := len(res.Subsequence) + len(res.Skipped)
	out := make([]Entry, 0, n)
	next := 0
	for i := r.Start; len(out) < n; i++ {
		if _, ok := skipped[i]; ok {
			out = append(out, Entry{Index: i, Skipped: true})
		} else if next < len(res.Subsequence) {
			out = append(out, Entry{Index: i, Term: res.Subsequence[next]})
			next++
		} else {
			break
		}
		if i == r.End {
			break
		}
	}
	return out
}

// Clone returns a deep copy of res.
func (res Result) Clone() Result {
	out := res
	if res.Subsequence != nil {
		out.Subsequence = append([]fibonacci.Term(nil), res.Subsequence...)
	}
	if res.Skipped != nil {
		out.Skipped = append([]uint64(nil), res.Skipped...)
	}
	return out
}

// ProgressUpdate is emitted after each index has been handled.
type ProgressUpdate struct {
	// Index is the index just handled.
	Index uint64
	// Term is F(Index). It is meaningless when Skipped is set.
	Term fibonacci.Term
	// Skipped reports that Index was dropped on overflow.
	Skipped bool
	// Done is the number of indices handled so far, skipped ones included.
	Done uint64
	// Total is the number of indices in the range.
	Total uint64
}

// Value returns the completed fraction in [0, 1].
func (u ProgressUpdate) Value() float64 {
	if u.Total == 0 {
		return 1
	}
	return float64(u.Done) / float64(u.Total)
}

// ProgressCallback receives progress updates. It runs on the generating
// goroutine and must not block.
type ProgressCallback func(ProgressUpdate)
