package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/fibseq/internal/cache"
	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubService records the last request and answers with a canned response.
type stubService struct {
	mu   sync.Mutex
	last orchestration.Request
	resp orchestration.Response
	err  error
}

func (s *stubService) Subsequence(_ context.Context, req orchestration.Request) (orchestration.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = req
	return s.resp, s.err
}

func (s *stubService) lastRequest() orchestration.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func newTestServer(svc orchestration.Subsequencer, cfg Config) *Server {
	if cfg.Security.AllowedMethods == nil {
		cfg.Security = DefaultSecurityConfig()
	}
	return New(svc, cfg)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHandleSubsequence_Complete(t *testing.T) {
	t.Parallel()
	svc := &stubService{resp: orchestration.Response{Result: generator.Result{
		Subsequence: []fibonacci.Term{0, 1, 1, 2, 3, 5, 8, 13},
	}}}
	s := newTestServer(svc, Config{DefaultMaxMemory: 1 << 20})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/0/7/false")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[subsequenceResponse](t, rec)
	assert.Equal(t, []fibonacci.Term{0, 1, 1, 2, 3, 5, 8, 13}, body.Subsequence)
	assert.Equal(t, int64(0), body.StartIndex)
	assert.Equal(t, int64(7), body.EndIndex)
	assert.Equal(t, int64(1000), body.Timeout)
	assert.Equal(t, uint64(1<<20), body.MaxMemory)
	require.NotNil(t, body.TimeoutOccurred)
	require.NotNil(t, body.MemoryLimitReached)
	assert.False(t, *body.TimeoutOccurred)
	assert.False(t, *body.MemoryLimitReached)
	assert.False(t, body.Cached)

	req := svc.lastRequest()
	assert.Equal(t, generator.Range{Start: 0, End: 7}, req.Range)
	assert.Equal(t, DefaultRequestTimeout, req.Budget.Timeout)
	assert.False(t, req.UseCache)
}

func TestHandleSubsequence_QueryBudget(t *testing.T) {
	t.Parallel()
	svc := &stubService{resp: orchestration.Response{Result: generator.Result{Subsequence: []fibonacci.Term{5}}}}
	s := newTestServer(svc, Config{})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/5/5/true?timeout=250&maxMemory=64MiB")
	require.Equal(t, http.StatusOK, rec.Code)

	req := svc.lastRequest()
	assert.Equal(t, 250*time.Millisecond, req.Budget.Timeout)
	assert.Equal(t, uint64(64<<20), req.Budget.MaxMemory)
	assert.True(t, req.UseCache)
}

func TestHandleSubsequence_Partial(t *testing.T) {
	t.Parallel()
	svc := &stubService{resp: orchestration.Response{Result: generator.Result{
		Subsequence:     []fibonacci.Term{0, 1, 1},
		TimeoutOccurred: true,
		Cause:           generator.CauseTimeout,
	}}}
	s := newTestServer(svc, Config{})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/0/90/false?timeout=10")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[subsequenceResponse](t, rec)
	assert.Len(t, body.Subsequence, 3)
	require.NotNil(t, body.TimeoutOccurred)
	assert.True(t, *body.TimeoutOccurred)
	assert.False(t, *body.MemoryLimitReached)
}

func TestHandleSubsequence_Skipped(t *testing.T) {
	t.Parallel()
	svc := &stubService{resp: orchestration.Response{Result: generator.Result{
		Subsequence: []fibonacci.Term{7540113804746346429, 12200160415121876738},
		Skipped:     []uint64{94},
	}}}
	s := newTestServer(svc, Config{})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/92/94/false")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[subsequenceResponse](t, rec)
	assert.Equal(t, []uint64{94}, body.Skipped)
	assert.Len(t, body.Subsequence, 2)
}

func TestHandleSubsequence_CachedOmitsFlags(t *testing.T) {
	t.Parallel()
	svc := &stubService{resp: orchestration.Response{
		Result: generator.Result{Subsequence: []fibonacci.Term{0, 1, 1}},
		Cached: true,
	}}
	s := newTestServer(svc, Config{})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/0/2/true")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["cached"])
	assert.NotContains(t, raw, "timeoutOccurred")
	assert.NotContains(t, raw, "memoryLimitReached")
}

func TestHandleSubsequence_BudgetExceededWithoutTerms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		result generator.Result
		cause  string
		errSub string
	}{
		{
			name:   "timeout",
			result: generator.Result{TimeoutOccurred: true, Cause: generator.CauseTimeout},
			cause:  "timeout",
			errSub: "timed out",
		},
		{
			name:   "memory",
			result: generator.Result{MemoryLimitReached: true, Cause: generator.CauseMemoryLimit},
			cause:  "memory_limit",
			errSub: "memory limit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubService{resp: orchestration.Response{Result: tt.result}}
			s := newTestServer(svc, Config{})

			rec := get(t, s.Handler(), "/api/fibonacci/subsequence/0/10/false")
			require.Equal(t, http.StatusRequestTimeout, rec.Code)

			body := decode[errorResponse](t, rec)
			assert.Equal(t, tt.cause, body.Cause)
			assert.Contains(t, body.Error, tt.errSub)
		})
	}
}

func TestHandleSubsequence_BadRequest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		target string
	}{
		{"negative start", "/api/fibonacci/subsequence/-1/5/false"},
		{"end before start", "/api/fibonacci/subsequence/10/5/false"},
		{"non-numeric index", "/api/fibonacci/subsequence/abc/5/false"},
		{"bad useCache", "/api/fibonacci/subsequence/0/5/maybe"},
		{"zero timeout", "/api/fibonacci/subsequence/0/5/false?timeout=0"},
		{"timeout above cap", "/api/fibonacci/subsequence/0/5/false?timeout=3600000"},
		{"bad maxMemory", "/api/fibonacci/subsequence/0/5/false?maxMemory=lots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubService{}
			s := newTestServer(svc, Config{})

			rec := get(t, s.Handler(), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, orchestration.Request{}, svc.lastRequest(), "no computation on a rejected request")
		})
	}
}

func TestHandleSubsequence_ServiceError(t *testing.T) {
	t.Parallel()
	svc := &stubService{err: errors.New("boom")}
	s := newTestServer(svc, Config{})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/0/5/false")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandleSubsequence_EndToEnd(t *testing.T) {
	t.Parallel()
	gen := generator.New(fibonacci.Binet{}, metrics.StaticProbe(0), generator.WithTermDelay(0))
	svc := orchestration.NewService(gen, cache.New())
	s := newTestServer(svc, Config{})

	rec := get(t, s.Handler(), "/api/fibonacci/subsequence/0/7/true")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[subsequenceResponse](t, rec)
	assert.Equal(t, []fibonacci.Term{0, 1, 1, 2, 3, 5, 8, 13}, first.Subsequence)
	assert.False(t, first.Cached)

	rec = get(t, s.Handler(), "/api/fibonacci/subsequence/0/7/true")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[subsequenceResponse](t, rec)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Subsequence, second.Subsequence)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(&stubService{}, Config{Version: "v1.2.3"})

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[healthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "v1.2.3", body.Version)
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(&stubService{}, Config{})
	rec := get(t, s.Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	s := newTestServer(&stubService{}, Config{})

	rec := get(t, s.Handler(), "/health")
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	svc := &stubService{resp: orchestration.Response{Result: generator.Result{Subsequence: []fibonacci.Term{0}}}}
	s := newTestServer(svc, Config{RateLimit: 1})

	first := get(t, s.Handler(), "/api/fibonacci/subsequence/0/0/false")
	assert.Equal(t, http.StatusOK, first.Code)
	second := get(t, s.Handler(), "/api/fibonacci/subsequence/0/0/false")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Health checks are not rate limited.
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/health").Code)
}

func TestRun_GracefulShutdown(t *testing.T) {
	t.Parallel()
	s := newTestServer(&stubService{}, Config{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var addr string
	select {
	case a := <-s.Addr():
		addr = a.String()
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()
	s := newTestServer(&stubService{}, Config{Addr: "not-an-address"})
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}
