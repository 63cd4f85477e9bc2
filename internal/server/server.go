package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/orchestration"
)

// ServiceName names the server in traces.
const ServiceName = "fibseq"

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// DefaultRequestTimeout applies when a request carries no timeout parameter.
const DefaultRequestTimeout = time.Second

// Config holds the server settings.
type Config struct {
	Addr string
	// DefaultMaxMemory applies when a request carries no maxMemory
	// parameter. Zero disables the memory check.
	DefaultMaxMemory uint64
	// RateLimit is the accepted number of requests per second. Zero
	// disables limiting.
	RateLimit float64
	Security  SecurityConfig
	Version   string
}

// Server serves the subsequence API.
type Server struct {
	svc     orchestration.Subsequencer
	cfg     Config
	logger  logging.Logger
	metrics *Metrics
	limiter *rate.Limiter
	tracer  trace.TracerProvider
	router  *gin.Engine
	addr    chan net.Addr
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics shares m with the caller, typically to register generation
// and cache collectors on m.Registry().
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracerProvider sets the provider used by the tracing middleware.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

// New builds a Server answering with svc.
func New(svc orchestration.Subsequencer, cfg Config, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		cfg:    cfg,
		logger: logging.NewNopLogger(),
		addr:   make(chan net.Addr, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.cfg.Security.MaxTimeout <= 0 {
		s.cfg.Security.MaxTimeout = DefaultSecurityConfig().MaxTimeout
	}
	s.limiter = newLimiter(cfg.RateLimit)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()

	var otelOpts []otelgin.Option
	if s.tracer != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(s.tracer))
	}
	r.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		otelgin.Middleware(ServiceName, otelOpts...),
		LoggingMiddleware(s.logger),
		s.metricsMiddleware(),
		SecurityMiddleware(s.cfg.Security),
	)

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)

	api := r.Group("/api/fibonacci", RateLimitMiddleware(s.limiter))
	api.GET("/subsequence/:startIndex/:endIndex/:useCache", s.handleSubsequence)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns a channel receiving the bound address once Run listens.
func (s *Server) Addr() <-chan net.Addr { return s.addr }

// Run serves until ctx is canceled, then shuts down gracefully, letting
// in-flight requests finish for a bounded time.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	s.addr <- ln.Addr()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening",
			logging.String("addr", ln.Addr().String()),
			logging.String("version", s.cfg.Version))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
