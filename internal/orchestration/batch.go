package orchestration

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one request in a batch.
type BatchResult struct {
	Request  Request
	Response Response
	// Err is a rejection of the request itself, such as a validation error.
	Err error
	// Duration is the wall-clock time spent answering the request.
	Duration time.Duration
}

// ExecuteBatch answers reqs concurrently, running at most limit requests
// at a time, and returns their outcomes in input order.
//
// A failing request does not cancel the others: each outcome carries its
// own error.
//
// Parameters:
//   - ctx: The context for cancellation, shared by every request.
//   - svc: The service answering each request.
//   - reqs: The requests to run.
//   - limit: The maximum number of concurrent requests; non-positive means
//     unbounded.
//
// Returns:
//   - []BatchResult: One result per request, in the order of reqs.
func ExecuteBatch(ctx context.Context, svc Subsequencer, reqs []Request, limit int) []BatchResult {
	results := make([]BatchResult, len(reqs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range reqs {
		g.Go(func() error {
			start := time.Now()
			resp, err := svc.Subsequence(ctx, req)
			results[i] = BatchResult{Request: req, Response: resp, Err: err, Duration: time.Since(start)}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
