package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/providers"
)

// EstimateRequest is the request body for POST /api/v1/estimate.
type EstimateRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// handleEstimate projects token counts and cost for a prompt on one provider.
func (s *Server) handleEstimate(c echo.Context) error {
	var req EstimateRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid estimate request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	if req.Provider == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "provider field is required")
	}

	est, err := s.deps.Estimator.Estimate(req.Text, req.Provider, req.Model)
	if err != nil {
		if errors.Is(err, providers.ErrUnknownProvider) || errors.Is(err, providers.ErrUnknownModel) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "estimate failed")
	}

	return c.JSON(http.StatusOK, est)
}

// ProviderEntry is one catalog row as served by GET /api/v1/providers.
type ProviderEntry struct {
	Name            string   `json:"name"`
	Models          []string `json:"models"`
	DefaultModel    string   `json:"default_model"`
	CostPer1KInput  float64  `json:"cost_per_1k_input"`
	CostPer1KOutput float64  `json:"cost_per_1k_output"`
	SpeedRank       int      `json:"speed_rank"`
	QualityRank     int      `json:"quality_rank"`
}

// ProvidersResponse is the response body for GET /api/v1/providers.
type ProvidersResponse struct {
	Providers []ProviderEntry `json:"providers"`
}

// handleProviders lists the live catalog in its stable order.
func (s *Server) handleProviders(c echo.Context) error {
	infos := s.deps.Catalog.List()
	entries := make([]ProviderEntry, 0, len(infos))
	for _, info := range infos {
		models := make([]string, 0, len(info.Models))
		for _, m := range info.Models {
			models = append(models, m.Name)
		}
		entries = append(entries, ProviderEntry{
			Name:            info.Name,
			Models:          models,
			DefaultModel:    info.DefaultModel(),
			CostPer1KInput:  info.CostPer1KInput,
			CostPer1KOutput: info.CostPer1KOutput,
			SpeedRank:       info.SpeedRank,
			QualityRank:     info.QualityRank,
		})
	}
	return c.JSON(http.StatusOK, ProvidersResponse{Providers: entries})
}

// RecommendRequest is the request body for POST /api/v1/providers/recommend.
type RecommendRequest struct {
	Text        string  `json:"text"`
	Priority    string  `json:"priority,omitempty"`
	BudgetLimit float64 `json:"budget_limit,omitempty"`
}

// RecommendResponse is the response body for POST /api/v1/providers/recommend.
type RecommendResponse struct {
	Recommendations []providers.Recommendation `json:"recommendations"`
}

// handleRecommend ranks the catalog for a prompt and returns the top picks.
func (s *Server) handleRecommend(c echo.Context) error {
	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid recommend request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	recs := s.deps.Recommender.Recommend(req.Text, providers.Preference{
		Priority:    req.Priority,
		BudgetLimit: req.BudgetLimit,
	})
	return c.JSON(http.StatusOK, RecommendResponse{Recommendations: recs})
}

// PricingEntry is one provider's rates as served by GET /api/v1/pricing.
type PricingEntry struct {
	Provider        string  `json:"provider"`
	DefaultModel    string  `json:"default_model"`
	CostPer1KInput  float64 `json:"cost_per_1k_input"`
	CostPer1KOutput float64 `json:"cost_per_1k_output"`
}

// PricingResponse is the response body for GET /api/v1/pricing.
type PricingResponse struct {
	Pricing []PricingEntry `json:"pricing"`
}

// handlePricing serves the per-1K rates the savings estimates are priced at.
func (s *Server) handlePricing(c echo.Context) error {
	infos := s.deps.Catalog.List()
	entries := make([]PricingEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, PricingEntry{
			Provider:        info.Name,
			DefaultModel:    info.DefaultModel(),
			CostPer1KInput:  info.CostPer1KInput,
			CostPer1KOutput: info.CostPer1KOutput,
		})
	}
	return c.JSON(http.StatusOK, PricingResponse{Pricing: entries})
}
