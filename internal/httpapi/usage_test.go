package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortresslabs/shrinkd/internal/costs"
)

func TestHandleUsageRecord(t *testing.T) {
	t.Run("records into the ledger", func(t *testing.T) {
		server := setupTestServer(t)

		resp := postUsage(t, server, UsageRecordRequest{
			Provider:   "anthropic",
			Level:      "balanced",
			TokensUsed: 1200,
			CostUSD:    0.018,
		}, http.StatusOK)

		assert.True(t, resp.Recorded)
		assert.False(t, resp.Calibrated)

		sum := server.deps.Ledger.Summary()
		assert.Equal(t, 1, sum.Requests)
		assert.Equal(t, 1200, sum.TotalTokens)
		assert.InDelta(t, 0.018, sum.TotalCostUSD, 1e-9)
	})

	t.Run("feeds calibration when actuals are reported", func(t *testing.T) {
		server := setupTestServer(t)

		resp := postUsage(t, server, UsageRecordRequest{
			Provider:        "openai",
			Level:           "aggressive",
			TokensUsed:      900,
			CostUSD:         0.027,
			EstimatedTokens: 1000,
			ActualTokens:    900,
		}, http.StatusOK)

		assert.True(t, resp.Calibrated)

		sample, ok := server.deps.Calibration.Sample("openai")
		require.True(t, ok)
		assert.Equal(t, 1, sample.SampleCount)
		// 0.3*0.9 + 0.7*1.0
		assert.InDelta(t, 0.97, sample.TokenRatio, 1e-9)
	})

	t.Run("rejects missing provider", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(UsageRecordRequest{TokensUsed: 10})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/usage", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		server := setupTestServer(t)

		body, err := json.Marshal(UsageRecordRequest{Provider: "openai", CostUSD: -1})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/usage", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleUsageSummary(t *testing.T) {
	server := setupTestServer(t)

	postUsage(t, server, UsageRecordRequest{
		Provider: "openai", Level: "balanced", TokensUsed: 100, CostUSD: 0.003,
	}, http.StatusOK)
	postUsage(t, server, UsageRecordRequest{
		Provider: "anthropic", Level: "aggressive", TokensUsed: 200, CostUSD: 0.003,
	}, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/summary", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var sum costs.Summary
	err := json.Unmarshal(rec.Body.Bytes(), &sum)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Requests)
	assert.Equal(t, 300, sum.TotalTokens)
	assert.Len(t, sum.ByProvider, 2)
	assert.Len(t, sum.ByLevel, 2)
}

func TestHandleUsagePrediction(t *testing.T) {
	server := setupTestServer(t)

	// Seed four distinct days so the predictor has a real window.
	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		server.deps.Ledger.Record(costs.UsageEvent{
			Provider:   "openai",
			Level:      "balanced",
			TokensUsed: 1000,
			CostUSD:    1.0,
			At:         now.AddDate(0, 0, -i),
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/prediction", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var pred costs.Prediction
	err := json.Unmarshal(rec.Body.Bytes(), &pred)
	require.NoError(t, err)

	assert.Equal(t, 4, pred.DaysObserved)
	assert.InDelta(t, 30.0, pred.ProjectedMonthlyUSD, 0.01)
	assert.InDelta(t, 0.7, pred.Confidence, 1e-9)
}

func TestHandleUsageAnomalies(t *testing.T) {
	t.Run("empty ledger yields no anomalies", func(t *testing.T) {
		server := setupTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/anomalies", nil)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp AnomaliesResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Empty(t, resp.Anomalies)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		server := setupTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/anomalies?days=0", nil)
		rec := httptest.NewRecorder()

		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleUsageAdvice(t *testing.T) {
	server := setupTestServer(t)

	// All spend on one provider trips the diversification advice.
	postUsage(t, server, UsageRecordRequest{
		Provider: "openai", Level: "balanced", TokensUsed: 5000, CostUSD: 5.0,
	}, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/advice", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp AdviceResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)

	types := make([]string, 0, len(resp.Advice))
	for _, a := range resp.Advice {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, "DIVERSIFY_PROVIDERS")
}

func TestHandleUsageEfficiency(t *testing.T) {
	server := setupTestServer(t)

	postUsage(t, server, UsageRecordRequest{
		Provider: "groq", Level: "aggressive", TokensUsed: 100000, CostUSD: 3.0,
	}, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage/efficiency", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var eff costs.Efficiency
	err := json.Unmarshal(rec.Body.Bytes(), &eff)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, eff.Score, 0)
	assert.LessOrEqual(t, eff.Score, 100)
	assert.NotEmpty(t, eff.Message)
	assert.Equal(t, 100000, eff.TokensAnalyzed)
}

// postUsage submits one usage record and decodes the response.
func postUsage(t *testing.T, server *Server, reqBody UsageRecordRequest, wantStatus int) UsageRecordResponse {
	t.Helper()

	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/usage", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)
	require.Equal(t, wantStatus, rec.Code, rec.Body.String())

	var resp UsageRecordResponse
	err = json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}
