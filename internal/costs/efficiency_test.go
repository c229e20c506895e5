package costs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Score_EmptyLedger(t *testing.T) {
	got := NewScorer(NewLedger()).Score()

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, "Not enough data", got.Message)
	assert.Equal(t, EfficiencyBreakdown{}, got.Breakdown)
}

func TestScorer_Score_EfficientAggressiveUsage(t *testing.T) {
	l := NewLedger()
	// $30 per million tokens sits right at the optimal rate.
	for i := 0; i < 3; i++ {
		l.Record(eventOn(dayDate(i), "google", "aggressive", 1_000_000, 30))
	}

	got := NewScorer(l).Score()

	assert.Equal(t, EfficiencyBreakdown{CostPerToken: 100, OptimizationUsage: 100, Trend: 75}, got.Breakdown)
	assert.Equal(t, 92, got.Score)
	assert.Equal(t, "Excellent cost efficiency! Keep it up.", got.Message)
	assert.InDelta(t, 0.00003, got.CostPerTokenUSD, 1e-12)
	assert.Equal(t, 3_000_000, got.TokensAnalyzed)
}

func TestScorer_Score_ExpensiveConservativeUsage(t *testing.T) {
	l := NewLedger()
	l.Record(eventOn("2026-08-01", "openai", "balanced", 1000, 1))

	got := NewScorer(l).Score()

	// $0.001 per token floors the cost score; no aggressive usage parks
	// the level score at the midpoint.
	assert.Equal(t, EfficiencyBreakdown{CostPerToken: 0, OptimizationUsage: 50, Trend: 75}, got.Breakdown)
	assert.Equal(t, 37, got.Score)
	assert.Equal(t, "Low cost efficiency. Consider optimization strategies.", got.Message)
}

func TestScorer_Score_MidBandCostPerToken(t *testing.T) {
	l := NewLedger()
	l.Record(eventOn("2026-08-01", "openai", "aggressive", 1_000_000, 50))

	got := NewScorer(l).Score()

	assert.Equal(t, 80, got.Breakdown.CostPerToken)
	assert.Equal(t, 84, got.Score)
	assert.Equal(t, "Good cost efficiency. Some minor optimizations possible.", got.Message)
}

func TestScorer_Score_ZeroTokens(t *testing.T) {
	l := NewLedger()
	l.Record(eventOn("2026-08-01", "openai", "balanced", 0, 5))

	got := NewScorer(l).Score()

	assert.Equal(t, 50, got.Breakdown.CostPerToken)
	assert.Equal(t, 0.0, got.CostPerTokenUSD)
	assert.Equal(t, 0, got.TokensAnalyzed)
	assert.Equal(t, "Average cost efficiency. Review recommendations.", got.Message)
}

func TestScorer_Score_TrendRewardsFallingSpend(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 7; i++ {
		l.Record(eventOn(dayDate(i), "google", "aggressive", 1_000_000, 10))
	}
	for i := 7; i < 14; i++ {
		l.Record(eventOn(dayDate(i), "google", "aggressive", 1_000_000, 5))
	}

	got := NewScorer(l).Score()

	assert.Equal(t, 100, got.Breakdown.Trend)
	assert.Equal(t, 100, got.Score)
}

func TestScorer_Score_TrendPenalizesRisingSpend(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 7; i++ {
		l.Record(eventOn(dayDate(i), "google", "aggressive", 1_000_000, 5))
	}
	for i := 7; i < 14; i++ {
		l.Record(eventOn(dayDate(i), "google", "aggressive", 1_000_000, 10))
	}

	got := NewScorer(l).Score()
	assert.Equal(t, 50, got.Breakdown.Trend)
}

func TestScorer_Score_UnderSevenDaysTrendIsNeutral(t *testing.T) {
	l := NewLedger()
	seedDailyCosts(l, "openai", "balanced", 1, 2, 3)

	got := NewScorer(l).Score()
	assert.Equal(t, 75, got.Breakdown.Trend)
}
