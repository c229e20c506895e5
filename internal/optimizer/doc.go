// Package optimizer shrinks prompt text before it is sent to a language
// model API, cutting billed tokens while preserving meaning.
//
// The pipeline has two stages. Code-looking input first loses comment
// boilerplate (provider-aware, see StripBoilerplate), then near-duplicate
// lines are collapsed by normalized edit-distance similarity (DedupeLines).
// Token accounting is derived from the before/after texts with a uniform
// four-bytes-per-token heuristic.
//
// # Pipeline
//
//	raw ──► LooksLikeCode? ──► StripBoilerplate ──► DedupeLines ──► Result
//	              │ no                                  ▲
//	              └─────────────────────────────────────┘
//
// The similarity threshold comes from the optimization level (conservative
// 0.98, balanced 0.90, aggressive 0.80) unless the caller overrides it.
// Unknown levels fall back to balanced without erroring.
//
// # Usage
//
//	eng := optimizer.NewEngine()
//	res := eng.Optimize(prompt, optimizer.Options{
//	    Level:     optimizer.LevelBalanced,
//	    Provider:  optimizer.ProviderOpenAI,
//	    CostPer1K: 0.03,
//	})
//	fmt.Printf("%d → %d tokens (%.1f%% saved)\n",
//	    res.TokensBefore, res.TokensAfter, res.PercentSaved)
//
// Engine holds no state; every call is independent and a single value is
// safe for concurrent use. There is no I/O, no network, and no cancellation
// point; a call runs to completion.
//
// # Limitations
//
// Comment stripping is regex-based and not string-literal aware, so comment
// markers inside string literals are treated as comment starters. Duplicate
// detection scans all previously kept lines per candidate, O(L² · Ā) for L
// lines of average length Ā; callers in latency-sensitive paths must bound
// input size themselves (Service enforces a byte cap, Engine does not).
// Token counts are estimates, not real tokenizer output.
//
// Service wraps Engine with input validation, structured logging, and
// OpenTelemetry traces and metrics for use by the HTTP and MCP surfaces.
package optimizer
