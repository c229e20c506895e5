package costs

import "math"

// Trends reported by the predictor.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
	TrendUnknown    = "unknown"
)

// minPredictionDays is how much history a forecast needs before it says
// anything other than unknown.
const minPredictionDays = 3

// Prediction is a 30-day cost forecast from observed daily spend.
type Prediction struct {
	DailyAverageUSD     float64 `json:"daily_average_usd"`
	ProjectedMonthlyUSD float64 `json:"projected_monthly_usd"`
	DaysObserved        int     `json:"days_observed"`
	Confidence          float64 `json:"confidence"`
	Trend               string  `json:"trend"`
}

// Predictor forecasts monthly spend from the ledger.
type Predictor struct {
	ledger *Ledger
}

// NewPredictor returns a predictor reading from ledger.
func NewPredictor(ledger *Ledger) *Predictor {
	return &Predictor{ledger: ledger}
}

// PredictMonthly projects 30 days at the mean observed daily spend.
// Confidence grows by 0.05 per observed day from a 0.5 base, capped at
// 0.95; under three days the forecast is all zeros with trend unknown.
func (p *Predictor) PredictMonthly() Prediction {
	days := p.ledger.Days()
	if len(days) < minPredictionDays {
		return Prediction{DaysObserved: len(days), Trend: TrendUnknown}
	}

	costs := dailyCosts(days)
	avg := mean(costs)

	return Prediction{
		DailyAverageUSD:     round2(avg),
		ProjectedMonthlyUSD: round2(avg * 30),
		DaysObserved:        len(days),
		Confidence:          math.Min(0.95, 0.5+0.05*float64(len(days))),
		Trend:               trendOf(costs),
	}
}

// trendOf compares the mean of the last three days against the mean of
// everything older, with 10% bands around flat. With no older days the
// trend is stable.
func trendOf(costs []float64) string {
	if len(costs) < minPredictionDays {
		return TrendUnknown
	}
	older := costs[:len(costs)-3]
	if len(older) == 0 {
		return TrendStable
	}

	recent := mean(costs[len(costs)-3:])
	olderAvg := mean(older)
	switch {
	case recent > olderAvg*1.1:
		return TrendIncreasing
	case recent < olderAvg*0.9:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
