package matching

import (
	"regexp"
	"strings"
)

// Default similarity thresholds tuned against real client exports.
const (
	CustomerThreshold = 0.85
	AddressThreshold  = 0.80
)

var punct = regexp.MustCompile(`[^\w\s]`)

// Normalize lowercases a name, strips punctuation, and collapses
// whitespace so "ACME, Inc." and "acme inc" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punct.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Similarity returns a ratio in [0,1] between two normalized strings
// based on shared character bigrams. Identical strings score 1.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}
	matches := 0
	for i := 0; i < len(b)-1; i++ {
		bg := b[i : i+2]
		if bigrams[bg] > 0 {
			bigrams[bg]--
			matches++
		}
	}
	return 2.0 * float64(matches) / float64(len(a)+len(b)-2)
}

// Match holds the best candidate found for a query string.
type Match struct {
	Value string
	Index int
	Score float64
}

// BestMatch returns the candidate with the highest similarity to query
// at or above threshold, or ok=false when none qualifies. Exact
// normalized matches short-circuit with score 1.
func BestMatch(query string, candidates []string, threshold float64) (Match, bool) {
	normQuery := Normalize(query)
	if normQuery == "" {
		return Match{}, false
	}

	best := Match{Index: -1}
	for i, c := range candidates {
		if Normalize(c) == normQuery {
			return Match{Value: c, Index: i, Score: 1}, true
		}
		if score := Similarity(query, c); score > best.Score {
			best = Match{Value: c, Index: i, Score: score}
		}
	}
	if best.Index >= 0 && best.Score >= threshold {
		return best, true
	}
	return Match{}, false
}
