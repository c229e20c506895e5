package optimizer

import "regexp"

// Probes run in declaration order; the first hit classifies the text as
// code. Import probes are line-anchored so prose mentioning "import" or
// "export" mid-sentence does not trip them.
var codeProbes = []*regexp.Regexp{
	// C-family declarations: "function name(", "class Name", and
	// type-prefixed signatures like "int main() {" or "func run() {".
	regexp.MustCompile(`(?m)\b(?:function|class)\s+[A-Za-z_$][\w$]*|^\s*[\w<>\[\]]+\s+\w+\s*\([^()]*\)\s*\{`),
	// Module plumbing at line start.
	regexp.MustCompile(`(?m)^\s*(?:import|export)\b`),
	// Arrow functions.
	regexp.MustCompile(`\([^()]*\)\s*=>|=>\s*\{`),
	// Python definitions at line start.
	regexp.MustCompile(`(?m)^\s*(?:def\s+\w+\s*\(|from\s+[\w.]+\s+import\b|class\s+\w+\s*[(:])`),
	// Java/C# member declarations at line start.
	regexp.MustCompile(`(?m)^\s*(?:public|private|protected)\s+[\w<>\[\]]+\s+\w+`),
}

// LooksLikeCode reports whether text appears to contain source code rather
// than prose. The heuristic is language-agnostic and intentionally loose:
// false positives on code-like prose are accepted, and exotic languages may
// be missed. Deterministic, no side effects.
func LooksLikeCode(text string) bool {
	for _, probe := range codeProbes {
		if probe.MatchString(text) {
			return true
		}
	}
	return false
}
