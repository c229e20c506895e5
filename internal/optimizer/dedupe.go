package optimizer

import (
	"regexp"
	"strings"
)

var newlineRunRegex = regexp.MustCompile(`\n{3,}`)

// DedupeLines drops exact and near-duplicate lines from text. Lines are
// keyed by their trimmed, lowercased form; a candidate is dropped when its
// key matches an earlier kept key exactly, or when similarity to the first
// sufficiently close earlier key reaches threshold (first match wins, no
// best-match search). Among mutually similar lines, the earliest occurrence
// survives. Blank lines pass through verbatim and never participate.
//
// Kept lines are joined with "\n", runs of three or more newlines collapse
// to two, and the result is trimmed.
//
// Each candidate scans every line kept so far with an edit-distance inner
// loop, O(L² · Ā) worst case for L non-blank lines of average length Ā.
// This is the dominant cost of the whole engine; callers must bound input
// size in latency-sensitive paths.
func DedupeLines(text string, threshold float64) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	kept := make([]string, 0, len(lines))
	seen := make([]seenLine, 0, len(lines))
	seenKeys := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		key := strings.ToLower(strings.TrimSpace(line))
		if key == "" {
			kept = append(kept, line)
			continue
		}
		if _, dup := seenKeys[key]; dup {
			continue
		}
		if hasSimilarPredecessor(key, seen, threshold) {
			continue
		}
		kept = append(kept, line)
		seen = append(seen, seenLine{key: key, line: line})
		seenKeys[key] = struct{}{}
	}

	out := strings.Join(kept, "\n")
	out = newlineRunRegex.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// hasSimilarPredecessor scans seen in insertion order and reports whether
// any earlier key is at least threshold-similar to key.
func hasSimilarPredecessor(key string, seen []seenLine, threshold float64) bool {
	for _, s := range seen {
		if Similarity(key, s.key) >= threshold {
			return true
		}
	}
	return false
}
