package app

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/fibseq/internal/cache"
	"github.com/agbru/fibseq/internal/config"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/sysmon"
)

// newProbe returns the memory probe named by -probe.
func (a *Application) newProbe() metrics.MemoryProbe {
	if a.probe != nil {
		return a.probe
	}
	switch strings.ToLower(a.Config.Probe) {
	case config.ProbeRSS:
		return sysmon.NewRSSProbe()
	case config.ProbePeakRSS:
		return sysmon.NewPeakRSSProbe()
	default:
		return metrics.NewHeapProbe()
	}
}

// newRecorder registers the generation and cache collectors on reg. A nil
// registry disables them.
func newRecorder(reg prometheus.Registerer) metrics.Recorder {
	if reg == nil {
		return metrics.NopRecorder{}
	}
	return metrics.NewPrometheusRecorder(reg)
}

// newService wires the calculator, probe, generator and, when withCache is
// set, a range cache whose janitor runs until ctx is done.
func (a *Application) newService(ctx context.Context, rec metrics.Recorder, withCache bool, genOpts ...generator.Option) (*orchestration.Service, error) {
	calc, err := orchestration.SelectCalculator(a.Config.Algo, a.Factory)
	if err != nil {
		return nil, err
	}

	opts := append([]generator.Option{
		generator.WithTermDelay(a.Config.TermDelay),
		generator.WithLogger(a.logger),
		generator.WithRecorder(rec),
	}, genOpts...)
	gen := generator.New(calc, a.newProbe(), opts...)

	var rc orchestration.ResultCache
	if withCache {
		c := cache.New(
			cache.WithExpiration(a.Config.CacheTTL),
			cache.WithRecorder(rec),
			cache.WithLogger(a.logger),
		)
		go c.Run(ctx, a.Config.CacheTTL/2)
		rc = c
	}
	return orchestration.NewService(gen, rc, orchestration.WithServiceLogger(a.logger)), nil
}

// budget returns the budget configured by -timeout and -max-memory.
func (a *Application) budget() generator.Budget {
	return generator.Budget{Timeout: a.Config.Timeout, MaxMemory: a.Config.MaxMemory}
}

// singleRange returns the range of a single computation: the positional
// range when one is given, -start and -end otherwise.
func (a *Application) singleRange() (int64, int64) {
	if len(a.Config.Ranges) == 1 {
		return a.Config.Ranges[0].Start, a.Config.Ranges[0].End
	}
	return a.Config.Start, a.Config.End
}
