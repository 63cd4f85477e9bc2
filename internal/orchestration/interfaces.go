package orchestration

import (
	"context"
	"io"

	"github.com/agbru/fibseq/internal/generator"
)

// Runner produces a bounded run of terms. *generator.Generator satisfies it.
type Runner interface {
	Generate(ctx context.Context, r generator.Range, b generator.Budget) generator.Result
}

// ResultCache memoizes complete results. *cache.RangeCache satisfies it.
type ResultCache interface {
	Lookup(r generator.Range) (generator.Result, bool)
	Store(r generator.Range, res generator.Result) bool
}

// Subsequencer answers a single range request. *Service satisfies it; the
// transports and ExecuteBatch depend only on this interface.
type Subsequencer interface {
	Subsequence(ctx context.Context, req Request) (Response, error)
}

// ResultPresenter defines the interface for presenting responses. It
// decouples orchestration from output formats (text, JSON).
type ResultPresenter interface {
	// PresentResponse displays the outcome of a single request.
	PresentResponse(req Request, resp Response, out io.Writer)

	// PresentBatch displays the outcomes of a batch, in input order.
	PresentBatch(results []BatchResult, out io.Writer)
}

// ErrorHandler handles request errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}
