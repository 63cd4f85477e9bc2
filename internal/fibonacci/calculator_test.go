package fibonacci

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// iterativeReference returns F(0)..F(MaxIndex) by plain accumulation.
func iterativeReference() []uint64 {
	terms := make([]uint64, MaxIndex+1)
	terms[1] = 1
	for i := 2; i <= MaxIndex; i++ {
		terms[i] = terms[i-1] + terms[i-2]
	}
	return terms
}

func allCalculators() []Calculator {
	return []Calculator{Binet{}, FastDoubling{}}
}

func TestCalculators_KnownValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{7, 13},
		{10, 55},
		{20, 6765},
		{50, 12586269025},
		{70, 190392490709135},
		{80, 23416728348467685},
		{92, 7540113804746346429},
		{93, 12200160415121876738},
	}

	for _, calc := range allCalculators() {
		for _, tc := range cases {
			calc, tc := calc, tc
			t.Run(fmt.Sprintf("%s/F(%d)", calc.Name(), tc.n), func(t *testing.T) {
				t.Parallel()
				got, err := calc.Term(tc.n)
				if err != nil {
					t.Fatalf("Term(%d) error: %v", tc.n, err)
				}
				if got != tc.want {
					t.Errorf("Term(%d) = %d, want %d", tc.n, got, tc.want)
				}
			})
		}
	}
}

func TestCalculators_MatchIterativeReference(t *testing.T) {
	t.Parallel()
	ref := iterativeReference()

	for _, calc := range allCalculators() {
		for n := uint64(0); n <= MaxIndex; n++ {
			got, err := calc.Term(n)
			if err != nil {
				t.Fatalf("%s: Term(%d) error: %v", calc.Name(), n, err)
			}
			if got != ref[n] {
				t.Errorf("%s: Term(%d) = %d, want %d", calc.Name(), n, got, ref[n])
			}
		}
	}
}

func TestCalculators_Overflow(t *testing.T) {
	t.Parallel()

	indices := []uint64{94, 95, 100, 1000, closedFormCutoff + 1, math.MaxUint64}

	for _, calc := range allCalculators() {
		for _, n := range indices {
			calc, n := calc, n
			t.Run(fmt.Sprintf("%s/F(%d)", calc.Name(), n), func(t *testing.T) {
				t.Parallel()
				got, err := calc.Term(n)
				if err == nil {
					t.Fatalf("Term(%d) = %d, want overflow", n, got)
				}
				if !IsOverflow(err) {
					t.Errorf("error %v should wrap ErrOverflow", err)
				}
				var oe *OverflowError
				if !errors.As(err, &oe) {
					t.Fatalf("error %v should be an *OverflowError", err)
				}
				if oe.Index != n {
					t.Errorf("OverflowError.Index = %d, want %d", oe.Index, n)
				}
			})
		}
	}
}

func TestOverflowError_Message(t *testing.T) {
	t.Parallel()
	err := &OverflowError{Index: 94}
	want := "F(94): fibonacci term overflows uint64"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCalculatorFunc(t *testing.T) {
	t.Parallel()
	calc := CalculatorFunc(func(index uint64) (Term, error) { return index * 2, nil })
	if calc.Name() != "func" {
		t.Errorf("Name() = %q, want func", calc.Name())
	}
	if got, _ := calc.Term(21); got != 42 {
		t.Errorf("Term(21) = %d, want 42", got)
	}
}

func TestDefaultFactory(t *testing.T) {
	t.Parallel()

	t.Run("List returns sorted names", func(t *testing.T) {
		t.Parallel()
		names := NewDefaultFactory().List()
		if len(names) != 2 || names[0] != AlgoBinet || names[1] != AlgoDoubling {
			t.Errorf("List() = %v, want [binet doubling]", names)
		}
	})

	t.Run("Get resolves registered calculators", func(t *testing.T) {
		t.Parallel()
		f := NewDefaultFactory()
		for _, name := range f.List() {
			calc, err := f.Get(name)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", name, err)
			}
			if calc.Name() != name {
				t.Errorf("Get(%q).Name() = %q", name, calc.Name())
			}
		}
	})

	t.Run("Get rejects unknown names", func(t *testing.T) {
		t.Parallel()
		if _, err := NewDefaultFactory().Get("matrix"); err == nil {
			t.Error("expected error for unknown algorithm")
		}
	})

	t.Run("Register rejects duplicates and nil", func(t *testing.T) {
		t.Parallel()
		f := NewDefaultFactory()
		if err := f.Register(AlgoBinet, Binet{}); err == nil {
			t.Error("expected error for duplicate registration")
		}
		if err := f.Register("nil", nil); err == nil {
			t.Error("expected error for nil calculator")
		}
	})
}
