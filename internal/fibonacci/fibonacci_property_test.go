package fibonacci

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestClosedFormMatchesDoubling_PropertyBased verifies that the closed form
// and the fast doubling oracle agree on every representable index.
func TestClosedFormMatchesDoubling_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Binet(n) == FastDoubling(n) for n <= MaxIndex", prop.ForAll(
		func(n uint64) bool {
			a, errA := Binet{}.Term(n)
			b, errB := FastDoubling{}.Term(n)
			return errA == nil && errB == nil && a == b
		},
		gen.UInt64Range(0, MaxIndex),
	))

	properties.TestingRun(t)
}

// TestRecurrenceRelation_PropertyBased verifies the defining recurrence:
//
//	F(n) = F(n-1) + F(n-2)  for 2 <= n <= MaxIndex
func TestRecurrenceRelation_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, calculator := range allCalculators() {
		calculator := calculator
		properties.Property(calculator.Name()+" satisfies recurrence F(n) = F(n-1) + F(n-2)", prop.ForAll(
			func(n uint64) bool {
				fn, err := calculator.Term(n)
				if err != nil {
					return false
				}
				fn1, err := calculator.Term(n - 1)
				if err != nil {
					return false
				}
				fn2, err := calculator.Term(n - 2)
				if err != nil {
					return false
				}
				return fn == fn1+fn2
			},
			gen.UInt64Range(2, MaxIndex),
		))
	}

	properties.TestingRun(t)
}

// TestOverflowBoundary_PropertyBased verifies that a term is returned iff
// the index is representable, for indices on both sides of MaxIndex.
func TestOverflowBoundary_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	for _, calculator := range allCalculators() {
		calculator := calculator
		properties.Property(calculator.Name()+" overflows exactly past MaxIndex", prop.ForAll(
			func(n uint64) bool {
				_, err := calculator.Term(n)
				if n <= MaxIndex {
					return err == nil
				}
				return IsOverflow(err)
			},
			gen.UInt64Range(0, 4096),
		))
	}

	properties.TestingRun(t)
}
