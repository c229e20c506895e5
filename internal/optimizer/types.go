package optimizer

// Level selects how readily near-duplicate lines are treated as removable.
type Level string

const (
	// LevelConservative only collapses lines that are almost identical.
	LevelConservative Level = "conservative"
	// LevelBalanced is the default trade-off between savings and fidelity.
	LevelBalanced Level = "balanced"
	// LevelAggressive collapses loosely similar lines for maximum savings.
	LevelAggressive Level = "aggressive"
)

// Provider identifies the LLM target the prompt is being prepared for.
// Stripping behavior is keyed on it; unknown values are accepted and get
// the conservative treatment.
type Provider string

const (
	ProviderAnthropic     Provider = "anthropic"
	ProviderOpenAI        Provider = "openai"
	ProviderCopilot       Provider = "copilot"
	ProviderClaudeDesktop Provider = "claude-desktop"
	ProviderAzure         Provider = "azure"
	ProviderGemini        Provider = "gemini"
	ProviderGroq          Provider = "groq"
	ProviderOllama        Provider = "ollama"
)

// Options controls a single optimization pass.
type Options struct {
	// Level picks the similarity threshold preset. Unknown values fall
	// back to balanced.
	Level Level

	// Provider steers boilerplate stripping for code-looking input.
	Provider Provider

	// DetectCode gates the stripping stage. Nil means enabled.
	DetectCode *bool

	// Threshold overrides the level preset when non-nil. It is passed
	// through unvalidated; values outside [0,1] are the caller's problem.
	Threshold *float64

	// CostPer1K is the provider's USD price per 1000 tokens, used only
	// for the savings estimate.
	CostPer1K float64
}

// detectCodeEnabled reports whether the stripping stage may run.
func (o Options) detectCodeEnabled() bool {
	return o.DetectCode == nil || *o.DetectCode
}

// Result reports what one optimization pass did.
type Result struct {
	// TokensBefore and TokensAfter are estimates, not tokenizer output.
	TokensBefore int
	TokensAfter  int

	// PercentSaved is the relative reduction in percent, floored at zero.
	PercentSaved float64

	// EstCostSavedUSD is the dollar estimate at Options.CostPer1K.
	EstCostSavedUSD float64

	// OptimizedText is the rewritten prompt.
	OptimizedText string
}

// seenLine pairs a kept line with its normalized comparison key. The list
// of seenLines grows in first-occurrence order during one dedupe pass and
// is discarded at return.
type seenLine struct {
	key  string
	line string
}
