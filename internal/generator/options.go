package generator

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
)

// DefaultTermDelay is the latency charged to every term.
const DefaultTermDelay = 500 * time.Millisecond

// Option configures a Generator.
type Option func(*Generator)

// WithTermDelay sets the per-term latency. Zero removes it.
func WithTermDelay(d time.Duration) Option {
	return func(g *Generator) {
		if d < 0 {
			d = 0
		}
		g.termDelay = d
	}
}

// WithLogger sets the logger used for skipped indices and run summaries.
func WithLogger(l logging.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithProgress registers a callback invoked after every index.
func WithProgress(cb ProgressCallback) Option {
	return func(g *Generator) { g.progress = cb }
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) {
		if t != nil {
			g.tracer = t
		}
	}
}
