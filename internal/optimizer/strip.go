package optimizer

import "regexp"

var (
	lineCommentRegex  = regexp.MustCompile(`(?m)(?://|#).*$`)
	docstringRegex    = regexp.MustCompile(`(?s)'''.*?'''|""".*?"""`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// StripBoilerplate removes comment noise from code-looking text before
// deduplication. Line comments always go. Docstrings and block comments go
// only for providers whose prompts tolerate losing them; anthropic targets
// keep them, structure is preserved deliberately, and unknown providers get
// the same conservative treatment.
//
// Matching is plain regex and not string-literal aware: a "//" or "#"
// inside a string literal is treated as a comment starter, so a URL such
// as "http://example.com" loses its tail. Correct removal needs a scanner
// that tracks string/comment/code state; documented limitation, not fixed
// here because fixing it changes output on code-bearing prompts.
//
// Idempotent: matched spans no longer exist after the first pass.
func StripBoilerplate(text string, provider Provider) string {
	return stripComments(text, stripsBlocks(provider))
}

// stripComments is the single removal path for every provider category.
func stripComments(text string, includeBlocks bool) string {
	text = lineCommentRegex.ReplaceAllString(text, "")
	if includeBlocks {
		text = docstringRegex.ReplaceAllString(text, "")
		text = blockCommentRegex.ReplaceAllString(text, "")
	}
	return text
}

// stripsBlocks reports whether the provider's category also sheds
// docstrings and block comments.
func stripsBlocks(p Provider) bool {
	switch p {
	case ProviderOpenAI, ProviderCopilot, ProviderClaudeDesktop:
		return true
	default:
		return false
	}
}
