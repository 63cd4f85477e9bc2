package generator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
)

const tracerName = "github.com/agbru/fibseq/internal/generator"

// Generator produces contiguous runs of sequence terms under a Budget.
// A Generator holds no per-run state and is safe for concurrent use.
type Generator struct {
	calc      fibonacci.Calculator
	probe     metrics.MemoryProbe
	termDelay time.Duration
	logger    logging.Logger
	recorder  metrics.Recorder
	progress  ProgressCallback
	tracer    trace.Tracer
	now       func() time.Time
}

// New creates a Generator that computes terms with calc and samples memory
// with probe.
//
// Parameters:
//   - calc: The term calculator. Must not be nil.
//   - probe: The memory probe consulted before each term. A nil probe
//     disables the memory check.
//   - opts: Functional options.
//
// Returns:
//   - *Generator: The configured generator.
func New(calc fibonacci.Calculator, probe metrics.MemoryProbe, opts ...Option) *Generator {
	g := &Generator{
		calc:      calc,
		probe:     probe,
		termDelay: DefaultTermDelay,
		logger:    logging.NewNopLogger(),
		recorder:  metrics.NopRecorder{},
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Calculator returns the calculator the generator was built with.
func (g *Generator) Calculator() fibonacci.Calculator { return g.calc }

// Generate computes F(r.Start) through F(r.End) in index order.
//
// One deadline, armed on entry, covers the whole call. Before each term the
// generator waits out the term delay, racing it against that deadline, and
// then samples memory. When the deadline has fired the run stops with
// CauseTimeout, and that check always runs first, so a run that has both
// exhausted its time and crossed its memory ceiling reports a timeout.
// Indices whose term overflows are skipped and the loop continues.
//
// Generate never fails: the terms committed before a budget was exceeded
// are returned together with the cause.
func (g *Generator) Generate(ctx context.Context, r Range, b Budget) Result {
	start := g.now()
	ctx, span := g.tracer.Start(ctx, "generator.Generate",
		trace.WithAttributes(
			attribute.Int64("fibseq.range.start", int64(r.Start)),
			attribute.Int64("fibseq.range.end", int64(r.End)),
			attribute.String("fibseq.algorithm", g.calc.Name()),
			attribute.Int64("fibseq.budget.timeout_ms", b.Timeout.Milliseconds()),
			attribute.Int64("fibseq.budget.max_memory", int64(b.MaxMemory)),
		),
	)
	defer span.End()

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	res := g.run(ctx, r, b)

	elapsed := g.now().Sub(start)
	g.recorder.ObserveRun(res.Cause.String(), len(res.Subsequence), elapsed)
	span.SetAttributes(
		attribute.String("fibseq.cause", res.Cause.String()),
		attribute.Int("fibseq.terms", len(res.Subsequence)),
		attribute.Int("fibseq.skipped", len(res.Skipped)),
	)
	if res.Cause != CauseNone {
		span.SetStatus(codes.Error, res.Cause.String())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	g.logger.Debug("generation finished",
		logging.String("range", r.String()),
		logging.String("cause", res.Cause.String()),
		logging.Int("terms", len(res.Subsequence)),
		logging.Int("skipped", len(res.Skipped)),
		logging.Duration("elapsed", elapsed),
	)
	return res
}

// run is the generation loop. terms is owned by this call until it
// returns.
func (g *Generator) run(ctx context.Context, r Range, b Budget) Result {
	terms := make([]fibonacci.Term, 0, representable(r))
	var skipped []uint64

	var timer *time.Timer
	if g.termDelay > 0 {
		timer = time.NewTimer(g.termDelay)
		timer.Stop()
		defer timer.Stop()
	}

	total := r.Len()
	var done uint64
	for i := r.Start; ; i++ {
		if ctx.Err() != nil {
			return newResult(terms, skipped, CauseTimeout)
		}

		if timer != nil {
			timer.Reset(g.termDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return newResult(terms, skipped, CauseTimeout)
			case <-timer.C:
			}
			// Both may have become ready together; the deadline wins.
			if ctx.Err() != nil {
				return newResult(terms, skipped, CauseTimeout)
			}
		}

		if g.memoryExceeded(b.MaxMemory) {
			return newResult(terms, skipped, CauseMemoryLimit)
		}

		term, err := g.calc.Term(i)
		switch {
		case err == nil:
			terms = append(terms, term)
		case fibonacci.IsOverflow(err):
			g.logger.Debug("skipping index", logging.Uint64("index", i), logging.Err(err))
			g.recorder.TermSkipped()
			skipped = append(skipped, i)
		default:
			g.logger.Error("term calculation failed", err, logging.Uint64("index", i))
			skipped = append(skipped, i)
		}

		done++
		if g.progress != nil {
			g.progress(ProgressUpdate{Index: i, Term: term, Skipped: err != nil, Done: done, Total: total})
		}
		if i == r.End {
			break
		}
	}
	return newResult(terms, skipped, CauseNone)
}

// memoryExceeded samples the probe and compares it with limit. A probe
// failure is logged and does not stop the run.
func (g *Generator) memoryExceeded(limit uint64) bool {
	if limit == 0 || g.probe == nil {
		return false
	}
	usage, err := g.probe.Usage()
	if err != nil {
		g.logger.Error("memory probe failed", err, logging.String("probe", g.probe.Name()))
		return false
	}
	return usage >= limit
}

// representable returns how many indices of r can yield a term, which
// bounds the accumulator.
func representable(r Range) uint64 {
	if r.Start > fibonacci.MaxIndex {
		return 0
	}
	end := min(r.End, fibonacci.MaxIndex)
	return end - r.Start + 1
}
