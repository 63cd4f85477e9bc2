package orchestration

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/logging"
)

// Request asks for the terms of Range under Budget.
type Request struct {
	Range    generator.Range
	Budget   generator.Budget
	UseCache bool
}

// Response carries the result of a Request. Cached is true when the result
// was served from the range cache without running the generator.
type Response struct {
	Result generator.Result
	Cached bool
}

// Service routes requests through the range cache and the generator.
type Service struct {
	runner Runner
	cache  ResultCache
	logger logging.Logger
	group  singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the detached context a shared run executes under. It is
// canceled once every caller waiting on it has gone.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the service logger.
func WithServiceLogger(l logging.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service. A nil cache makes every request bypass
// caching.
func NewService(runner Runner, cache ResultCache, opts ...ServiceOption) *Service {
	s := &Service{
		runner:  runner,
		cache:   cache,
		logger:  logging.NewNopLogger(),
		flights: make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Subsequencer = (*Service)(nil)

// Subsequence answers req.
//
// An invalid range is rejected with an apperrors.ValidationError before any
// computation. With UseCache set, a live cache entry is returned as is;
// otherwise the generator runs and a complete result is stored for later
// requests. Identical cached requests in flight at the same time share a
// single generator run. Budget overruns are not errors: they are reported
// by the flags of the returned result.
func (s *Service) Subsequence(ctx context.Context, req Request) (Response, error) {
	if req.Range.End < req.Range.Start {
		return Response{}, apperrors.ValidationError{
			Field:   "endIndex",
			Message: fmt.Sprintf("must not be lower than startIndex (%d < %d)", req.Range.End, req.Range.Start),
		}
	}
	if err := checkLength(req.Range); err != nil {
		return Response{}, err
	}

	if !req.UseCache || s.cache == nil {
		return Response{Result: s.runner.Generate(ctx, req.Range, req.Budget)}, nil
	}

	if res, ok := s.cache.Lookup(req.Range); ok {
		s.logger.Debug("cache hit", logging.String("range", req.Range.String()))
		return Response{Result: res, Cached: true}, nil
	}

	return s.coalesced(ctx, req)
}

// coalesced runs req through the single-flight group. The shared run is
// detached from any one caller: each caller waits on its own context, and
// the run is canceled only when the last waiter leaves. A caller that did
// not start the run and receives an incomplete result runs the range again
// under its own context, so the flags it sees reflect its own budget.
func (s *Service) coalesced(ctx context.Context, req Request) (Response, error) {
	key := flightKey(req)
	f := s.join(ctx, key)

	led := false
	ch := s.group.DoChan(key, func() (any, error) {
		led = true
		res := s.runner.Generate(f.ctx, req.Range, req.Budget)
		if s.cache.Store(req.Range, res) {
			s.logger.Debug("result cached", logging.String("range", req.Range.String()))
		}
		return res, nil
	})

	var r singleflight.Result
	select {
	case r = <-ch:
		s.leave(key, f)
	case <-ctx.Done():
		if !s.leave(key, f) {
			// Others still wait on the run; this caller gets nothing.
			return Response{Result: generator.Result{TimeoutOccurred: true, Cause: generator.CauseTimeout}}, nil
		}
		// The run was canceled on our behalf and stops at its next check.
		r = <-ch
	}

	res := r.Val.(generator.Result)
	if r.Shared {
		res = res.Clone()
	}
	if !led && ctx.Err() == nil && !res.Complete(req.Range) {
		s.logger.Debug("shared run incomplete, running again", logging.String("range", req.Range.String()))
		res = s.runner.Generate(ctx, req.Range, req.Budget)
		s.cache.Store(req.Range, res)
	}
	return Response{Result: res}, nil
}

// join registers the caller as a waiter on the flight for key, creating it
// when none is live.
func (s *Service) join(ctx context.Context, key string) *flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops one waiter from f and reports whether it was the last one,
// in which case the flight context is canceled.
func (s *Service) leave(key string, f *flight) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return false
	}
	f.cancel()
	if s.flights[key] == f {
		delete(s.flights, key)
	}
	return true
}

// flightKey identifies requests that may share one generator run. The
// budget is part of the key: a caller never receives a result produced
// under a different budget.
func flightKey(req Request) string {
	return fmt.Sprintf("%d:%d:%d:%d", req.Range.Start, req.Range.End, req.Budget.Timeout, req.Budget.MaxMemory)
}
