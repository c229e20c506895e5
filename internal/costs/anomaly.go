package costs

import "fmt"

// Anomaly types and severities.
const (
	AnomalySpike          = "SPIKE"
	AnomalyUnusualPattern = "UNUSUAL_PATTERN"

	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// defaultLookbackDays bounds the detection window when the caller does
// not say otherwise.
const defaultLookbackDays = 7

// Anomaly flags one day whose spend stands out from the window baseline.
type Anomaly struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	BaselineUSD float64 `json:"baseline_usd"`
	ObservedUSD float64 `json:"observed_usd"`
	Severity    string  `json:"severity"`
	Message     string  `json:"message"`
}

// Detector scans daily totals for spend anomalies.
type Detector struct {
	ledger *Ledger
}

// NewDetector returns a detector reading from ledger.
func NewDetector(ledger *Ledger) *Detector {
	return &Detector{ledger: ledger}
}

// Detect examines the last lookbackDays recorded days (default 7 when
// non-positive) and reports:
//   - SPIKE: a day above twice the window average and more than two
//     sample standard deviations over it; HIGH past three times the
//     average, MEDIUM otherwise.
//   - UNUSUAL_PATTERN: two consecutive days each above 1.5x the average.
//
// Fewer than two days in the window yields nothing.
func (d *Detector) Detect(lookbackDays int) []Anomaly {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}

	days := d.ledger.Days()
	if len(days) > lookbackDays {
		days = days[len(days)-lookbackDays:]
	}
	if len(days) < 2 {
		return nil
	}

	costs := dailyCosts(days)
	avg := mean(costs)
	sd := sampleStddev(costs)

	var out []Anomaly
	for i, day := range days {
		cost := day.TotalCostUSD

		if cost > avg*2 && cost > avg+2*sd {
			severity := SeverityMedium
			if cost > avg*3 {
				severity = SeverityHigh
			}
			out = append(out, Anomaly{
				Date:        day.Date,
				Type:        AnomalySpike,
				BaselineUSD: round2(avg),
				ObservedUSD: round2(cost),
				Severity:    severity,
				Message:     fmt.Sprintf("Cost spike: $%.2f vs average $%.2f", cost, avg),
			})
		}

		if i >= 1 && costs[i] > avg*1.5 && costs[i-1] > avg*1.5 {
			out = append(out, Anomaly{
				Date:        day.Date,
				Type:        AnomalyUnusualPattern,
				BaselineUSD: round2(avg),
				ObservedUSD: round2(cost),
				Severity:    SeverityMedium,
				Message:     "Consistent high usage over consecutive days",
			})
		}
	}
	return out
}
