package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/costs"
)

// defaultAnomalyLookbackDays bounds the window Detect scans when the
// caller sends no days parameter.
const defaultAnomalyLookbackDays = 30

// UsageRecordRequest is the request body for POST /api/v1/usage. The
// optional estimated/actual pair feeds token-ratio calibration when a
// caller reports what the provider actually billed.
type UsageRecordRequest struct {
	Provider        string  `json:"provider"`
	Level           string  `json:"level"`
	TokensUsed      int     `json:"tokens_used"`
	CostUSD         float64 `json:"cost_usd"`
	EstimatedTokens int     `json:"estimated_tokens,omitempty"`
	ActualTokens    int     `json:"actual_tokens,omitempty"`
}

// UsageRecordResponse is the response body for POST /api/v1/usage.
type UsageRecordResponse struct {
	Recorded   bool `json:"recorded"`
	Calibrated bool `json:"calibrated"`
}

// handleUsageRecord books externally observed usage into the ledger.
func (s *Server) handleUsageRecord(c echo.Context) error {
	var req UsageRecordRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid usage record", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Provider == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "provider field is required")
	}
	if req.TokensUsed < 0 || req.CostUSD < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tokens_used and cost_usd must be non-negative")
	}

	s.deps.Ledger.Record(costs.UsageEvent{
		Provider:   req.Provider,
		Level:      req.Level,
		TokensUsed: req.TokensUsed,
		CostUSD:    req.CostUSD,
	})

	calibrated := false
	if s.deps.Calibration != nil && req.EstimatedTokens > 0 && req.ActualTokens > 0 {
		s.deps.Calibration.Learn(req.Provider, req.EstimatedTokens, req.ActualTokens, req.CostUSD)
		calibrated = true
	}

	return c.JSON(http.StatusOK, UsageRecordResponse{Recorded: true, Calibrated: calibrated})
}

// handleUsageSummary serves the whole-ledger aggregates.
func (s *Server) handleUsageSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Ledger.Summary())
}

// handleUsagePrediction serves the 30-day spend projection.
func (s *Server) handleUsagePrediction(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Predictor.PredictMonthly())
}

// AnomaliesResponse is the response body for GET /api/v1/usage/anomalies.
type AnomaliesResponse struct {
	Anomalies []costs.Anomaly `json:"anomalies"`
}

// handleUsageAnomalies scans recent daily totals for spend spikes.
func (s *Server) handleUsageAnomalies(c echo.Context) error {
	days := s.config.AnomalyLookbackDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
		days = parsed
	}
	return c.JSON(http.StatusOK, AnomaliesResponse{Anomalies: s.deps.Detector.Detect(days)})
}

// AdviceResponse is the response body for GET /api/v1/usage/advice.
type AdviceResponse struct {
	Advice []costs.Advice `json:"advice"`
}

// handleUsageAdvice serves cost-reduction recommendations.
func (s *Server) handleUsageAdvice(c echo.Context) error {
	return c.JSON(http.StatusOK, AdviceResponse{Advice: s.deps.Advisor.Advise()})
}

// handleUsageEfficiency serves the 0-100 efficiency grade.
func (s *Server) handleUsageEfficiency(c echo.Context) error {
	return c.JSON(http.StatusOK, s.deps.Scorer.Score())
}
