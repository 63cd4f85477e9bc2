package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/format"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/sysmon"
)

type subsequenceURI struct {
	StartIndex int64 `uri:"startIndex"`
	EndIndex   int64 `uri:"endIndex"`
	UseCache   bool  `uri:"useCache"`
}

type subsequenceQuery struct {
	// Timeout is in milliseconds.
	Timeout   *int64 `form:"timeout" binding:"omitempty,gte=1"`
	MaxMemory string `form:"maxMemory"`
}

type subsequenceResponse struct {
	StartIndex         int64            `json:"startIndex"`
	EndIndex           int64            `json:"endIndex"`
	UseCache           bool             `json:"useCache"`
	Timeout            int64            `json:"timeout"`
	MaxMemory          uint64           `json:"maxMemory"`
	Subsequence        []fibonacci.Term `json:"subsequence"`
	TimeoutOccurred    *bool            `json:"timeoutOccurred,omitempty"`
	MemoryLimitReached *bool            `json:"memoryLimitReached,omitempty"`
	Skipped            []uint64         `json:"skipped,omitempty"`
	Cached             bool             `json:"cached,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Cause string `json:"cause,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	sysmon.Stats
}

func (s *Server) handleSubsequence(c *gin.Context) {
	var uri subsequenceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid path parameters: " + err.Error()})
		return
	}
	var query subsequenceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query parameters: " + err.Error()})
		return
	}

	r, err := orchestration.Validate(uri.StartIndex, uri.EndIndex)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	budget, err := s.budgetFor(query)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp, err := s.svc.Subsequence(c.Request.Context(), orchestration.Request{
		Range:    r,
		Budget:   budget,
		UseCache: uri.UseCache,
	})
	if err != nil {
		var verr apperrors.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Error()})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	res := resp.Result
	if len(res.Subsequence) == 0 && res.Cause != generator.CauseNone {
		s.logger.Debug("no term before budget exceeded",
			logging.String("range", r.String()),
			logging.String("cause", res.Cause.String()))
		c.JSON(http.StatusRequestTimeout, errorResponse{
			Error: orchestration.BudgetError(res, budget).Error(),
			Cause: res.Cause.String(),
		})
		return
	}

	terms := slices.Clone(res.Subsequence)
	slices.Sort(terms)
	body := subsequenceResponse{
		StartIndex:  uri.StartIndex,
		EndIndex:    uri.EndIndex,
		UseCache:    uri.UseCache,
		Timeout:     budget.Timeout.Milliseconds(),
		MaxMemory:   budget.MaxMemory,
		Subsequence: terms,
		Skipped:     res.Skipped,
	}
	if resp.Cached {
		body.Cached = true
	} else {
		body.TimeoutOccurred = &res.TimeoutOccurred
		body.MemoryLimitReached = &res.MemoryLimitReached
	}
	c.JSON(http.StatusOK, body)
}

// budgetFor resolves the request budget from the query and the server
// defaults.
func (s *Server) budgetFor(q subsequenceQuery) (generator.Budget, error) {
	b := generator.Budget{
		Timeout:   DefaultRequestTimeout,
		MaxMemory: s.cfg.DefaultMaxMemory,
	}
	if q.Timeout != nil {
		b.Timeout = time.Duration(*q.Timeout) * time.Millisecond
		if b.Timeout > s.cfg.Security.MaxTimeout {
			return generator.Budget{}, apperrors.ValidationError{
				Field:   "timeout",
				Message: fmt.Sprintf("must not exceed %d ms", s.cfg.Security.MaxTimeout.Milliseconds()),
			}
		}
	}
	if q.MaxMemory != "" {
		n, err := format.ParseBytes(q.MaxMemory)
		if err != nil {
			return generator.Budget{}, apperrors.ValidationError{
				Field:   "maxMemory",
				Message: fmt.Sprintf("invalid size %q", q.MaxMemory),
			}
		}
		b.MaxMemory = n
	}
	return b, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.cfg.Version,
		Stats:   sysmon.Sample(),
	})
}
