package orchestration

import (
	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/generator"
)

// BudgetError converts the cause recorded on res into the matching
// apperrors type so callers can map it to an exit code. It returns nil for
// a run that was not cut short.
func BudgetError(res generator.Result, b generator.Budget) error {
	switch res.Cause {
	case generator.CauseTimeout:
		return apperrors.TimeoutError{Operation: "generate", Limit: b.Timeout}
	case generator.CauseMemoryLimit:
		return apperrors.MemoryError{Limit: b.MaxMemory}
	default:
		return nil
	}
}
