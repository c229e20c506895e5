package optimizer

// Engine runs the optimization pipeline: boilerplate stripping for
// code-looking input, then near-duplicate line removal. It holds no state;
// every call reads its arguments and returns a fresh value, so a single
// Engine is safe for concurrent use without locking.
type Engine struct{}

// NewEngine returns a ready Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Optimize rewrites raw according to opts and reports token accounting
// alongside the new text. It never fails: unknown levels fall back to
// balanced, out-of-range thresholds are honored as given, and any string
// input is acceptable. Deterministic for a given input and options.
func (e *Engine) Optimize(raw string, opts Options) Result {
	text := raw
	if opts.detectCodeEnabled() && LooksLikeCode(text) {
		text = StripBoilerplate(text, opts.Provider)
	}

	threshold := ResolveThreshold(opts.Level, opts.Threshold)
	text = DedupeLines(text, threshold)

	res := ComputeMetrics(raw, text, opts.CostPer1K)
	res.OptimizedText = text
	return res
}

// Noop reports passthrough accounting for raw without touching it. Callers
// use it when optimization is disabled externally; deciding when belongs to
// them, not here.
func (e *Engine) Noop(raw string) Result {
	res := ComputeMetrics(raw, raw, 0)
	res.OptimizedText = raw
	return res
}
