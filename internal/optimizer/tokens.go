package optimizer

// EstimateTokens approximates the billed token count of s with the common
// four-bytes-per-token rule, rounding up, never below one. Every provider
// gets the same estimate even though real tokenizers differ; calibrated
// per-provider counts live in the providers package, not here.
func EstimateTokens(s string) int {
	n := (len(s) + 3) / 4
	if n < 1 {
		return 1
	}
	return n
}

// PercentSaved is the relative token reduction in percent, floored at zero
// so estimator rounding on tiny inputs never reports negative savings.
func PercentSaved(before, after int) float64 {
	if before <= 0 {
		return 0
	}
	p := float64(before-after) / float64(before) * 100
	if p < 0 {
		return 0
	}
	return p
}

// CostSavedUSD estimates the dollar savings at the given per-1K-token rate,
// floored at zero.
func CostSavedUSD(before, after int, costPer1K float64) float64 {
	saved := float64(before-after) / 1000 * costPer1K
	if saved < 0 {
		return 0
	}
	return saved
}

// ComputeMetrics derives the token and cost accounting for a before/after
// pair of texts. OptimizedText is left for the caller to fill in.
func ComputeMetrics(before, after string, costPer1K float64) Result {
	tb := EstimateTokens(before)
	ta := EstimateTokens(after)
	return Result{
		TokensBefore:    tb,
		TokensAfter:     ta,
		PercentSaved:    PercentSaved(tb, ta),
		EstCostSavedUSD: CostSavedUSD(tb, ta, costPer1K),
	}
}
