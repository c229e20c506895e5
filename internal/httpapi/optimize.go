package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/costs"
	"github.com/fortresslabs/shrinkd/internal/optimizer"
)

// OptimizeRequest is the request body for POST /api/v1/optimize.
type OptimizeRequest struct {
	Prompt     string   `json:"prompt"`
	Level      string   `json:"level,omitempty"`
	Provider   string   `json:"provider,omitempty"`
	DetectCode *bool    `json:"detect_code,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty"`
	CostPer1K  float64  `json:"cost_per_1k,omitempty"`
}

// OptimizeResponse is the response body for POST /api/v1/optimize and
// POST /api/v1/optimize/preview.
type OptimizeResponse struct {
	RequestID       string  `json:"request_id"`
	TokensBefore    int     `json:"tokens_before"`
	TokensAfter     int     `json:"tokens_after"`
	PercentSaved    float64 `json:"percent_saved"`
	EstCostSavedUSD float64 `json:"est_cost_saved_usd"`
	OptimizedText   string  `json:"optimized_text"`
}

// handleOptimize runs one optimization pass over the submitted prompt.
func (s *Server) handleOptimize(c echo.Context) error {
	var req OptimizeRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid optimize request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	opts := optimizer.Options{
		Level:      optimizer.Level(req.Level),
		Provider:   optimizer.Provider(req.Provider),
		DetectCode: req.DetectCode,
		Threshold:  req.Threshold,
		CostPer1K:  req.CostPer1K,
	}

	res, err := s.deps.Optimizer.Optimize(c.Request().Context(), req.Prompt, opts)
	if err != nil {
		return validationHTTPError(err)
	}

	s.recordUsage(req, res)

	return c.JSON(http.StatusOK, toOptimizeResponse(res))
}

// handlePreview returns passthrough accounting without touching the prompt.
// Callers use it when optimization is gated off but the numbers still matter.
func (s *Server) handlePreview(c echo.Context) error {
	var req OptimizeRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid preview request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.deps.Optimizer.Noop(c.Request().Context(), req.Prompt)
	if err != nil {
		return validationHTTPError(err)
	}

	return c.JSON(http.StatusOK, toOptimizeResponse(res))
}

// recordUsage books a served optimization into the ledger. Cost is priced
// at the request's rate over the tokens that were actually kept.
func (s *Server) recordUsage(req OptimizeRequest, res optimizer.Result) {
	cfg := s.deps.Optimizer.Config()
	level := req.Level
	if level == "" {
		level = string(cfg.DefaultLevel)
	}
	provider := req.Provider
	if provider == "" {
		provider = string(cfg.DefaultProvider)
	}

	s.deps.Ledger.Record(costs.UsageEvent{
		Provider:   provider,
		Level:      level,
		TokensUsed: res.TokensAfter,
		CostUSD:    float64(res.TokensAfter) / 1000 * req.CostPer1K,
	})
}

func toOptimizeResponse(res optimizer.Result) OptimizeResponse {
	return OptimizeResponse{
		RequestID:       newRequestID(),
		TokensBefore:    res.TokensBefore,
		TokensAfter:     res.TokensAfter,
		PercentSaved:    res.PercentSaved,
		EstCostSavedUSD: res.EstCostSavedUSD,
		OptimizedText:   res.OptimizedText,
	}
}

// newRequestID mints an opt_<unix-ms> id for response correlation.
func newRequestID() string {
	return fmt.Sprintf("opt_%d", time.Now().UnixMilli())
}

// validationHTTPError maps service validation failures onto HTTP statuses.
func validationHTTPError(err error) error {
	switch {
	case errors.Is(err, optimizer.ErrEmptyPrompt):
		return echo.NewHTTPError(http.StatusBadRequest, "prompt field is required")
	case errors.Is(err, optimizer.ErrPromptTooLarge):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "optimization failed")
	}
}
