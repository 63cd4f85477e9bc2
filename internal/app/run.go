package app

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/agbru/fibseq/internal/cli"
	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/server"
	"github.com/agbru/fibseq/internal/tui"
)

func (a *Application) presenter() cli.CLIResultPresenter {
	return cli.CLIResultPresenter{
		Quiet:   a.Config.Quiet,
		Verbose: a.Config.Verbose,
		JSON:    a.Config.JSON,
	}
}

// runSingle computes one range and prints it.
func (a *Application) runSingle(ctx context.Context, out io.Writer) int {
	presenter := a.presenter()
	start, end := a.singleRange()
	r, err := orchestration.Validate(start, end)
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	showProgress := !a.Config.Quiet && !a.Config.JSON
	var genOpts []generator.Option
	var progressChan chan generator.ProgressUpdate
	var wg sync.WaitGroup
	if showProgress {
		progressChan = make(chan generator.ProgressUpdate, orchestration.ProgressBufferSize)
		genOpts = append(genOpts, generator.WithProgress(orchestration.ChannelProgress(progressChan)))
		wg.Add(1)
		go cli.DisplayProgress(&wg, progressChan, a.ErrWriter)
	}

	svc, err := a.newService(ctx, metrics.NopRecorder{}, a.Config.UseCache, genOpts...)
	if err != nil {
		if showProgress {
			close(progressChan)
			wg.Wait()
		}
		return presenter.HandleError(err, a.ErrWriter)
	}

	req := orchestration.Request{Range: r, Budget: a.budget(), UseCache: a.Config.UseCache}
	resp, err := svc.Subsequence(ctx, req)
	if showProgress {
		close(progressChan)
		wg.Wait()
	}
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	presenter.PresentResponse(req, resp, out)
	return a.exitCode(ctx, resp.Result, req.Budget)
}

// runBatch computes every positional range, at most -concurrency at a time.
// The exit code is the first non-zero code in input order.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	presenter := a.presenter()
	svc, err := a.newService(ctx, metrics.NopRecorder{}, a.Config.UseCache)
	if err != nil {
		return presenter.HandleError(err, a.ErrWriter)
	}

	results := make([]orchestration.BatchResult, len(a.Config.Ranges))
	var reqs []orchestration.Request
	var slots []int
	for i, ir := range a.Config.Ranges {
		r, err := orchestration.Validate(ir.Start, ir.End)
		if err != nil {
			results[i] = orchestration.BatchResult{
				Request: orchestration.Request{Range: generator.Range{Start: uint64(max(ir.Start, 0)), End: uint64(max(ir.End, 0))}},
				Err:     err,
			}
			continue
		}
		reqs = append(reqs, orchestration.Request{Range: r, Budget: a.budget(), UseCache: a.Config.UseCache})
		slots = append(slots, i)
	}

	for j, br := range orchestration.ExecuteBatch(ctx, svc, reqs, a.Config.Concurrency) {
		results[slots[j]] = br
	}
	presenter.PresentBatch(results, out)

	for _, br := range results {
		code := apperrors.ExitCodeFor(br.Err)
		if br.Err == nil {
			code = a.exitCode(ctx, br.Response.Result, br.Request.Budget)
		}
		if code != apperrors.ExitSuccess {
			return code
		}
	}
	return apperrors.ExitSuccess
}

// exitCode maps a finished run to the process exit code. An interrupt
// reported as a timeout by the generator exits as canceled.
func (a *Application) exitCode(ctx context.Context, res generator.Result, b generator.Budget) int {
	if res.Cause == generator.CauseTimeout && errors.Is(ctx.Err(), context.Canceled) {
		return apperrors.ExitErrorCanceled
	}
	return apperrors.ExitCodeFor(orchestration.BudgetError(res, b))
}

// runServe runs the HTTP API until ctx is canceled.
func (a *Application) runServe(ctx context.Context) int {
	m := server.NewMetrics()
	rec := newRecorder(m.Registry())
	svc, err := a.newService(ctx, rec, true)
	if err != nil {
		return a.presenter().HandleError(err, a.ErrWriter)
	}

	srv := server.New(svc, server.Config{
		Addr:             a.Config.Addr,
		DefaultMaxMemory: a.Config.MaxMemory,
		RateLimit:        a.Config.RateLimit,
		Security:         server.DefaultSecurityConfig(),
		Version:          Version,
	}, server.WithLogger(a.logger), server.WithMetrics(m))

	if err := srv.Run(ctx); err != nil {
		a.logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	a.logger.Info("server stopped", logging.String("addr", a.Config.Addr))
	return apperrors.ExitSuccess
}

// runTUI follows a single range on the terminal dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	start, end := a.singleRange()
	r, err := orchestration.Validate(start, end)
	if err != nil {
		return a.presenter().HandleError(err, a.ErrWriter)
	}
	calc, err := orchestration.SelectCalculator(a.Config.Algo, a.Factory)
	if err != nil {
		return a.presenter().HandleError(err, a.ErrWriter)
	}

	return tui.Run(ctx, tui.Options{
		Range:      r,
		Budget:     a.budget(),
		Calculator: calc,
		Probe:      a.newProbe(),
		TermDelay:  a.Config.TermDelay,
		Logger:     logging.NewNopLogger(),
		Recorder:   metrics.NopRecorder{},
		Version:    Version,
	})
}
