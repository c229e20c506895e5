package costs

import "math"

// optimalCostPerToken anchors the cost-per-token score. Roughly the
// blended market rate of a well-optimized mid-tier deployment.
const optimalCostPerToken = 0.00003

// EfficiencyBreakdown itemizes the component scores.
type EfficiencyBreakdown struct {
	CostPerToken      int `json:"cost_per_token"`
	OptimizationUsage int `json:"optimization_usage"`
	Trend             int `json:"trend"`
}

// Efficiency grades how cost-effectively recorded usage ran, 0 to 100.
type Efficiency struct {
	Score           int                 `json:"score"`
	Message         string              `json:"message"`
	Breakdown       EfficiencyBreakdown `json:"breakdown"`
	CostPerTokenUSD float64             `json:"cost_per_token_usd"`
	TokensAnalyzed  int                 `json:"tokens_analyzed"`
}

// Scorer grades the ledger's usage.
type Scorer struct {
	ledger *Ledger
}

// NewScorer returns a scorer reading from ledger.
func NewScorer(ledger *Ledger) *Scorer {
	return &Scorer{ledger: ledger}
}

// Score weighs cost per token at 40%, aggressive-level share at 30% and
// the week-over-week spend trend at 30%.
func (s *Scorer) Score() Efficiency {
	days := s.ledger.Days()
	if len(days) == 0 {
		return Efficiency{Message: "Not enough data"}
	}

	sum := s.ledger.Summary()

	var cpt float64
	var cptScore float64
	if sum.TotalTokens == 0 {
		cptScore = 50
	} else {
		cpt = sum.TotalCostUSD / float64(sum.TotalTokens)
		switch {
		case cpt <= optimalCostPerToken*1.5:
			cptScore = 100
		case cpt <= optimalCostPerToken*2:
			cptScore = 80
		default:
			cptScore = math.Max(0, 100-(cpt/optimalCostPerToken)*10)
		}
	}

	// Only conservative/balanced usage sits at the midpoint; aggressive
	// share scales the score up from zero.
	optScore := 50
	if agg, ok := sum.ByLevel["aggressive"]; ok {
		share := 0.0
		if sum.TotalCostUSD > 0 {
			share = agg.CostUSD / sum.TotalCostUSD
		}
		optScore = int(share * 100)
	}

	trendScore := trendScoreOf(days)

	overall := int(cptScore*0.4 + float64(optScore)*0.3 + float64(trendScore)*0.3)
	if overall > 100 {
		overall = 100
	}

	return Efficiency{
		Score:   overall,
		Message: efficiencyMessage(overall),
		Breakdown: EfficiencyBreakdown{
			CostPerToken:      int(cptScore),
			OptimizationUsage: optScore,
			Trend:             trendScore,
		},
		CostPerTokenUSD: cpt,
		TokensAnalyzed:  sum.TotalTokens,
	}
}

// trendScoreOf rewards falling week-over-week spend. Without a full
// prior week to compare against, the current week stands in for it.
func trendScoreOf(days []DaySummary) int {
	if len(days) < 7 {
		return 75
	}

	recent := mean(dailyCosts(days[len(days)-7:]))
	older := recent
	if len(days) >= 14 {
		older = mean(dailyCosts(days[len(days)-14 : len(days)-7]))
	}

	switch {
	case recent < older*0.9:
		return 100
	case recent < older*1.1:
		return 75
	default:
		return 50
	}
}

func efficiencyMessage(score int) string {
	switch {
	case score >= 90:
		return "Excellent cost efficiency! Keep it up."
	case score >= 75:
		return "Good cost efficiency. Some minor optimizations possible."
	case score >= 50:
		return "Average cost efficiency. Review recommendations."
	default:
		return "Low cost efficiency. Consider optimization strategies."
	}
}
