package optimizer

// Similarity scores how close two strings are on a [0,1] scale: one minus
// the Levenshtein distance normalized by the longer length. Two empty
// strings score 1.0. Symmetric. This is a syntactic proxy for semantic
// closeness, not true meaning equivalence.
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}

	d := levenshtein(ra, rb)
	return float64(longest-d) / float64(longest)
}

// levenshtein computes classic edit distance with a single reusable row
// plus a diagonal carry: O(|a|·|b|) time, O(min(|a|,|b|)) space.
func levenshtein(a, b []rune) int {
	// Keep the row over the shorter string.
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}
