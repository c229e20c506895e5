package optimizer

// Per-level similarity thresholds. This table is the single source of
// defaults; there is deliberately no separate fallback constant.
const (
	thresholdConservative = 0.98
	thresholdBalanced     = 0.90
	thresholdAggressive   = 0.80
)

// ResolveThreshold maps an optimization level to its similarity threshold.
// A non-nil custom value wins and is returned untouched, without validation
// or clamping; callers owe values in [0,1]. Unknown levels silently resolve
// to the balanced threshold.
func ResolveThreshold(level Level, custom *float64) float64 {
	if custom != nil {
		return *custom
	}
	switch level {
	case LevelConservative:
		return thresholdConservative
	case LevelAggressive:
		return thresholdAggressive
	default:
		return thresholdBalanced
	}
}
