package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler for terminal output.
type CLIResultPresenter struct {
	// Quiet prints only the terms, space separated.
	Quiet bool
	// Verbose prints one line per handled index.
	Verbose bool
	// JSON prints machine-readable objects.
	JSON bool
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// jsonResponse is the JSON shape of one answered request.
type jsonResponse struct {
	StartIndex         uint64   `json:"startIndex"`
	EndIndex           uint64   `json:"endIndex"`
	Subsequence        []uint64 `json:"subsequence"`
	TimeoutOccurred    bool     `json:"timeoutOccurred"`
	MemoryLimitReached bool     `json:"memoryLimitReached"`
	Skipped            []uint64 `json:"skipped,omitempty"`
	Cached             bool     `json:"cached,omitempty"`
	Error              string   `json:"error,omitempty"`
	DurationMs         *int64   `json:"durationMs,omitempty"`
}

func newJSONResponse(req orchestration.Request, resp orchestration.Response) jsonResponse {
	terms := resp.Result.Subsequence
	if terms == nil {
		terms = []uint64{}
	}
	return jsonResponse{
		StartIndex:         req.Range.Start,
		EndIndex:           req.Range.End,
		Subsequence:        terms,
		TimeoutOccurred:    resp.Result.TimeoutOccurred,
		MemoryLimitReached: resp.Result.MemoryLimitReached,
		Skipped:            resp.Result.Skipped,
		Cached:             resp.Cached,
	}
}

// PresentResponse displays the outcome of a single request.
func (p CLIResultPresenter) PresentResponse(req orchestration.Request, resp orchestration.Response, out io.Writer) {
	switch {
	case p.JSON:
		writeJSON(out, newJSONResponse(req, resp))
	case p.Quiet:
		fmt.Fprintln(out, FormatTermList(resp.Result.Subsequence, " "))
	default:
		p.displayResponse(req, resp, out)
	}
}

// PresentBatch displays the outcomes of a batch in input order.
func (p CLIResultPresenter) PresentBatch(results []orchestration.BatchResult, out io.Writer) {
	if p.JSON {
		items := make([]jsonResponse, len(results))
		for i, br := range results {
			items[i] = newJSONResponse(br.Request, br.Response)
			if br.Err != nil {
				items[i].Error = br.Err.Error()
			}
			ms := br.Duration.Milliseconds()
			items[i].DurationMs = &ms
		}
		writeJSON(out, items)
		return
	}

	theme := ui.GetCurrentTheme()
	for i, br := range results {
		if i > 0 && !p.Quiet {
			fmt.Fprintln(out)
		}
		if br.Err != nil {
			fmt.Fprintf(out, "%s F%s: %v\n", ui.Paint(theme.Error, "rejected"), br.Request.Range, br.Err)
			continue
		}
		p.PresentResponse(br.Request, br.Response, out)
		if !p.Quiet {
			fmt.Fprintf(out, "%s %s\n", ui.Paint(theme.Secondary, "Duration:"), format.FormatExecutionDuration(br.Duration))
		}
	}
}

// HandleError reports err and returns the exit code that matches it.
func (p CLIResultPresenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	code := apperrors.ExitCodeFor(err)
	if p.JSON {
		writeJSON(out, map[string]string{"error": err.Error()})
		return code
	}
	theme := ui.GetCurrentTheme()
	switch code {
	case apperrors.ExitErrorCanceled:
		fmt.Fprintf(out, "%s\n", ui.Paint(theme.Warning, "Canceled."))
	case apperrors.ExitErrorConfig:
		fmt.Fprintf(out, "%s %v\n", ui.Paint(theme.Error, "Invalid request:"), err)
	default:
		fmt.Fprintf(out, "%s %v\n", ui.Paint(theme.Error, "Error:"), err)
	}
	return code
}

func (p CLIResultPresenter) displayResponse(req orchestration.Request, resp orchestration.Response, out io.Writer) {
	theme := ui.GetCurrentTheme()
	res := resp.Result

	title := "F" + req.Range.String()
	if resp.Cached {
		title += " " + ui.Paint(theme.Info, "(cached)")
	}
	fmt.Fprintf(out, "%s\n", ui.Paint(theme.Bold+theme.Primary, title))
	fmt.Fprintf(out, "%s %d of %d indices\n", ui.Paint(theme.Secondary, "Terms:"), len(res.Subsequence), req.Range.Len())

	if p.Verbose {
		DisplayTerms(req.Range, res, out)
	} else if len(res.Subsequence) > 0 {
		fmt.Fprintln(out, FormatTermList(res.Subsequence, ", "))
	}

	if len(res.Skipped) > 0 && !p.Verbose {
		fmt.Fprintf(out, "%s %s\n", ui.Paint(theme.Warning, "Skipped (overflow):"), formatIndices(res.Skipped))
	}
	fmt.Fprintf(out, "%s %s\n", ui.Paint(theme.Secondary, "Status:"), FormatStatus(res, req.Budget))
}

// DisplayTerms writes one line per handled index of r.
func DisplayTerms(r generator.Range, res generator.Result, out io.Writer) {
	theme := ui.GetCurrentTheme()
	for _, e := range res.Entries(r) {
		label := ui.Paint(theme.Secondary, fmt.Sprintf("F(%d)", e.Index))
		if e.Skipped {
			fmt.Fprintf(out, "  %s %s\n", label, ui.Paint(theme.Warning, "skipped: overflow"))
			continue
		}
		fmt.Fprintf(out, "  %s = %s\n", label, ui.Paint(theme.Primary, format.FormatTerm(e.Term)))
	}
}

// FormatStatus describes how a run ended.
func FormatStatus(res generator.Result, b generator.Budget) string {
	theme := ui.GetCurrentTheme()
	switch {
	case res.TimeoutOccurred:
		return ui.Paint(theme.Warning, fmt.Sprintf("timeout after %s, partial result", format.FormatExecutionDuration(b.Timeout)))
	case res.MemoryLimitReached:
		return ui.Paint(theme.Warning, fmt.Sprintf("memory limit of %s reached, partial result", format.FormatBytes(b.MaxMemory)))
	default:
		return ui.Paint(theme.Success, "complete")
	}
}

// FormatTermList joins terms with sep, without digit grouping so the
// output stays machine readable.
func FormatTermList(terms []uint64, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, sep)
}

func formatIndices(idx []uint64) string {
	return FormatTermList(idx, ", ")
}

func writeJSON(out io.Writer, v any) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
