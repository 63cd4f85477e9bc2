package orchestration

import (
	"fmt"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/generator"
)

// MaxRangeLength is the largest number of indices a single request may
// cover. Every index past fibonacci.MaxIndex is recorded as skipped, so an
// unbounded range with no budget would grow the result without limit.
const MaxRangeLength = 1 << 20

// Validate checks user supplied indices and converts them to a Range.
//
// Returns:
//   - generator.Range: The validated range.
//   - error: An apperrors.ValidationError when start is negative, end is
//     lower than start, or the range covers more than MaxRangeLength indices.
func Validate(start, end int64) (generator.Range, error) {
	if start < 0 {
		return generator.Range{}, apperrors.ValidationError{
			Field:   "startIndex",
			Message: fmt.Sprintf("must be non-negative, got %d", start),
		}
	}
	if end < start {
		return generator.Range{}, apperrors.ValidationError{
			Field:   "endIndex",
			Message: fmt.Sprintf("must not be lower than startIndex (%d < %d)", end, start),
		}
	}
	r := generator.Range{Start: uint64(start), End: uint64(end)}
	if err := checkLength(r); err != nil {
		return generator.Range{}, err
	}
	return r, nil
}

func checkLength(r generator.Range) error {
	if r.End-r.Start >= MaxRangeLength {
		return apperrors.ValidationError{
			Field:   "endIndex",
			Message: fmt.Sprintf("range covers more than %d indices", MaxRangeLength),
		}
	}
	return nil
}
