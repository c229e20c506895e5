package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortresslabs/shrinkd/internal/providers"
)

func TestHandleEstimate(t *testing.T) {
	t.Run("estimates with default model", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(EstimateRequest{
			Text:     strings.Repeat("a", 4000),
			Provider: "openai",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/estimate", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp providers.Estimate
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.Equal(t, "openai", resp.Provider)
		assert.Equal(t, "gpt-4-turbo", resp.Model)
		assert.Equal(t, 1000, resp.EstimatedInputTokens)
		assert.Equal(t, 200, resp.EstimatedOutputTokens)
	})

	t.Run("unknown provider yields 404", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(EstimateRequest{Text: "hello", Provider: "slack"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/estimate", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown model yields 404", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(EstimateRequest{
			Text:     "hello",
			Provider: "openai",
			Model:    "gpt-99",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/estimate", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing text yields 400", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(EstimateRequest{Provider: "openai"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/estimate", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleProviders(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ProvidersResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Providers, 5)
	assert.Equal(t, "openai", resp.Providers[0].Name)
	assert.Equal(t, "gpt-4-turbo", resp.Providers[0].DefaultModel)
	assert.Equal(t, 0.03, resp.Providers[0].CostPer1KInput)
	assert.Len(t, resp.Providers[0].Models, 3)
}

func TestHandleRecommend(t *testing.T) {
	t.Run("returns ranked recommendations", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(RecommendRequest{
			Text:     strings.Repeat("optimize this prompt please ", 100),
			Priority: "cost",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/recommend", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp RecommendResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		require.Len(t, resp.Recommendations, 3)
		// Cost priority sorts cheapest first.
		for i := 1; i < len(resp.Recommendations); i++ {
			assert.LessOrEqual(t, resp.Recommendations[i-1].CostUSD, resp.Recommendations[i].CostUSD)
		}
		assert.Len(t, resp.Recommendations[0].Potential, 3)
	})

	t.Run("missing text yields 400", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(RecommendRequest{Priority: "cost"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/recommend", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlePricing(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PricingResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Pricing, 5)
	assert.Equal(t, "openai", resp.Pricing[0].Provider)
	assert.Equal(t, 0.06, resp.Pricing[0].CostPer1KOutput)
}
