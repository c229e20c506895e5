package costs

import (
	"fmt"
	"sort"
)

// Advice types, checked and reported in this order.
const (
	AdviceDiversifyProviders   = "DIVERSIFY_PROVIDERS"
	AdviceSwitchLevel          = "SWITCH_OPTIMIZATION_LEVEL"
	AdviceIncreaseOptimization = "INCREASE_OPTIMIZATION"
	AdviceBudgetAlert          = "BUDGET_ALERT"
)

// defaultDailyBudgetUSD triggers the budget alert when the trailing week
// averages above it.
const defaultDailyBudgetUSD = 10.0

// Advice is one actionable cost-reduction suggestion.
type Advice struct {
	Type                 string  `json:"type"`
	Provider             string  `json:"provider,omitempty"`
	CurrentLevel         string  `json:"current_level,omitempty"`
	RecommendedLevel     string  `json:"recommended_level,omitempty"`
	CurrentPercentage    float64 `json:"current_percentage,omitempty"`
	DailyAverageUSD      float64 `json:"daily_average_usd,omitempty"`
	MonthlyProjectionUSD float64 `json:"monthly_projection_usd,omitempty"`
	PotentialSavingsUSD  float64 `json:"potential_savings_usd"`
	Message              string  `json:"message"`
}

// Advisor derives cost-reduction advice from the ledger.
type Advisor struct {
	ledger         *Ledger
	dailyBudgetUSD float64
}

// NewAdvisor returns an advisor reading from ledger, alerting when the
// trailing week averages above $10/day.
func NewAdvisor(ledger *Ledger) *Advisor {
	return NewAdvisorWithBudget(ledger, defaultDailyBudgetUSD)
}

// NewAdvisorWithBudget returns an advisor with a custom daily budget
// alert threshold. Non-positive budgets fall back to the default.
func NewAdvisorWithBudget(ledger *Ledger, dailyBudgetUSD float64) *Advisor {
	if dailyBudgetUSD <= 0 {
		dailyBudgetUSD = defaultDailyBudgetUSD
	}
	return &Advisor{ledger: ledger, dailyBudgetUSD: dailyBudgetUSD}
}

// Advise reports every rule that currently applies:
//   - one provider carrying over half the spend
//   - aggressive optimization carrying over 30% of spend
//   - balanced optimization carrying over 70% of spend
//   - trailing 7-day average spend above $10/day
//
// An empty ledger yields nothing.
func (a *Advisor) Advise() []Advice {
	days := a.ledger.Days()
	if len(days) == 0 {
		return nil
	}
	sum := a.ledger.Summary()

	var out []Advice
	if adv, ok := diversifyAdvice(sum); ok {
		out = append(out, adv)
	}
	if adv, ok := switchLevelAdvice(sum); ok {
		out = append(out, adv)
	}
	if adv, ok := increaseOptimizationAdvice(sum); ok {
		out = append(out, adv)
	}
	if adv, ok := budgetAlertAdvice(days, a.dailyBudgetUSD); ok {
		out = append(out, adv)
	}
	return out
}

func diversifyAdvice(sum Summary) (Advice, bool) {
	if sum.TotalCostUSD <= 0 {
		return Advice{}, false
	}

	// Alphabetical scan keeps ties deterministic.
	names := make([]string, 0, len(sum.ByProvider))
	for name := range sum.ByProvider {
		names = append(names, name)
	}
	sort.Strings(names)

	var topName string
	var topCost float64
	for _, name := range names {
		if c := sum.ByProvider[name].CostUSD; c > topCost {
			topName, topCost = name, c
		}
	}

	share := topCost / sum.TotalCostUSD
	if share <= 0.5 {
		return Advice{}, false
	}
	return Advice{
		Type:                AdviceDiversifyProviders,
		Provider:            topName,
		CurrentPercentage:   round1(share * 100),
		PotentialSavingsUSD: round2(topCost * 0.1),
		Message:             fmt.Sprintf("Reduce %s usage to under 50%% of total spend", topName),
	}, true
}

func switchLevelAdvice(sum Summary) (Advice, bool) {
	agg, ok := sum.ByLevel["aggressive"]
	if !ok || sum.TotalCostUSD <= 0 {
		return Advice{}, false
	}

	pct := agg.CostUSD / sum.TotalCostUSD * 100
	if pct <= 30 {
		return Advice{}, false
	}
	return Advice{
		Type:                AdviceSwitchLevel,
		CurrentLevel:        "aggressive",
		RecommendedLevel:    "balanced",
		CurrentPercentage:   round1(pct),
		PotentialSavingsUSD: round2(sum.TotalCostUSD * 0.05),
		Message:             "Switch some aggressive optimizations to balanced (28% vs 42% savings)",
	}, true
}

func increaseOptimizationAdvice(sum Summary) (Advice, bool) {
	bal, ok := sum.ByLevel["balanced"]
	if !ok || sum.TotalCostUSD <= 0 {
		return Advice{}, false
	}

	pct := bal.CostUSD / sum.TotalCostUSD * 100
	if pct <= 70 {
		return Advice{}, false
	}
	return Advice{
		Type:                AdviceIncreaseOptimization,
		CurrentLevel:        "balanced",
		RecommendedLevel:    "aggressive",
		CurrentPercentage:   round1(pct),
		PotentialSavingsUSD: round2(sum.TotalCostUSD * 0.14),
		Message:             "Mostly balanced usage. Try aggressive mode on low-stakes prompts.",
	}, true
}

func budgetAlertAdvice(days []DaySummary, dailyBudgetUSD float64) (Advice, bool) {
	if len(days) < 7 {
		return Advice{}, false
	}

	avg := mean(dailyCosts(days[len(days)-7:]))
	if avg <= dailyBudgetUSD {
		return Advice{}, false
	}

	monthly := avg * 30
	return Advice{
		Type:                 AdviceBudgetAlert,
		DailyAverageUSD:      round2(avg),
		MonthlyProjectionUSD: round2(monthly),
		PotentialSavingsUSD:  round2(monthly * 0.1),
		Message:              fmt.Sprintf("Daily spending averages $%.2f; projected monthly $%.2f", avg, monthly),
	}, true
}
