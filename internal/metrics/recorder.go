package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives domain events from the generator and the range cache.
type Recorder interface {
	// ObserveRun records one finished generation run.
	ObserveRun(cause string, terms int, elapsed time.Duration)
	// TermSkipped records one index dropped because its term overflowed.
	TermSkipped()
	// CacheLookup records a cache lookup outcome.
	CacheLookup(hit bool)
	// CacheStored records a result accepted by the cache.
	CacheStored()
	// CacheEvicted records entries dropped after their idle window.
	CacheEvicted(n int)
}

// NopRecorder discards every event.
type NopRecorder struct{}

var _ Recorder = NopRecorder{}

func (NopRecorder) ObserveRun(string, int, time.Duration) {}
func (NopRecorder) TermSkipped()                          {}
func (NopRecorder) CacheLookup(bool)                      {}
func (NopRecorder) CacheStored()                          {}
func (NopRecorder) CacheEvicted(int)                      {}

// PrometheusRecorder exports domain events as Prometheus metrics.
type PrometheusRecorder struct {
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	terms       prometheus.Counter
	skipped     prometheus.Counter
	lookups     *prometheus.CounterVec
	stored      prometheus.Counter
	evicted     prometheus.Counter
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates the fibseq_* collectors and registers them
// with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibseq_generator_runs_total",
			Help: "Generation runs by termination cause.",
		}, []string{"cause"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fibseq_generator_run_duration_seconds",
			Help:    "Wall-clock duration of generation runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"cause"}),
		terms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibseq_generator_terms_total",
			Help: "Terms committed to results.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibseq_generator_terms_skipped_total",
			Help: "Indices skipped because their term overflows uint64.",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibseq_cache_lookups_total",
			Help: "Range cache lookups by outcome.",
		}, []string{"outcome"}),
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibseq_cache_stores_total",
			Help: "Complete results stored in the range cache.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibseq_cache_evictions_total",
			Help: "Range cache entries evicted after their idle window.",
		}),
	}
	reg.MustRegister(r.runs, r.runDuration, r.terms, r.skipped, r.lookups, r.stored, r.evicted)
	return r
}

// ObserveRun implements Recorder.
func (r *PrometheusRecorder) ObserveRun(cause string, terms int, elapsed time.Duration) {
	r.runs.WithLabelValues(cause).Inc()
	r.runDuration.WithLabelValues(cause).Observe(elapsed.Seconds())
	r.terms.Add(float64(terms))
}

// TermSkipped implements Recorder.
func (r *PrometheusRecorder) TermSkipped() { r.skipped.Inc() }

// CacheLookup implements Recorder.
func (r *PrometheusRecorder) CacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.lookups.WithLabelValues(outcome).Inc()
}

// CacheStored implements Recorder.
func (r *PrometheusRecorder) CacheStored() { r.stored.Inc() }

// CacheEvicted implements Recorder.
func (r *PrometheusRecorder) CacheEvicted(n int) {
	if n > 0 {
		r.evicted.Add(float64(n))
	}
}
