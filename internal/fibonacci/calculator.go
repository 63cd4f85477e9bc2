package fibonacci

import (
	"errors"
	"fmt"
)

// Term is one value of the sequence. Terms saturate at the uint64 width;
// a value that would not fit is reported as an OverflowError instead.
type Term = uint64

// ErrOverflow is the sentinel wrapped by every OverflowError.
var ErrOverflow = errors.New("fibonacci term overflows uint64")

// OverflowError reports that F(Index) cannot be represented as a Term.
type OverflowError struct {
	Index uint64
}

// Error returns a message naming the offending index.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("F(%d): %v", e.Index, ErrOverflow)
}

// Unwrap exposes ErrOverflow to errors.Is.
func (e *OverflowError) Unwrap() error { return ErrOverflow }

// IsOverflow reports whether err is, or wraps, an overflow.
func IsOverflow(err error) bool {
	return errors.Is(err, ErrOverflow)
}

// Calculator maps an index to its sequence value.
//
// Implementations must be pure: the same index always yields the same term
// or the same error, and no call depends on a previous one. That property
// is what lets the generator race each term against a deadline and retry
// ranges freely.
type Calculator interface {
	// Name returns the registry name of the algorithm.
	Name() string
	// Term computes F(index) or returns an *OverflowError.
	Term(index uint64) (Term, error)
}

// CalculatorFunc adapts a plain function to the Calculator interface.
type CalculatorFunc func(index uint64) (Term, error)

// Name returns a fixed label for ad hoc calculators.
func (f CalculatorFunc) Name() string { return "func" }

// Term calls f(index).
func (f CalculatorFunc) Term(index uint64) (Term, error) { return f(index) }
