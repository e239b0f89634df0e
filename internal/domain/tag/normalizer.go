package tag

import "strings"

// DefaultMinLen is the minimum token length; tokens must be strictly longer to survive.
const DefaultMinLen = 2

// Normalizer lowercases tokens and drops stopwords and short tokens.
// The zero value is not usable; construct with New.
type Normalizer struct {
	minLen    int
	stopwords map[string]struct{}
}

// New creates a Normalizer with the given minimum token length.
// minLen <= 0 falls back to DefaultMinLen.
func New(minLen int) *Normalizer {
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	return &Normalizer{minLen: minLen, stopwords: stopwords}
}

// Tokens returns the lowercased tokens of raw that are not stopwords and
// are longer than the minimum length. Pure; never fails.
func (n *Normalizer) Tokens(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if len(t) <= n.minLen {
			continue
		}
		if _, stop := n.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Query splits a free-text query on whitespace and normalizes the tokens.
func (n *Normalizer) Query(query string) []string {
	return n.Tokens(strings.Fields(query))
}

// Text normalizes raw tokens and joins them into a single embedding input string.
func (n *Normalizer) Text(raw []string) string {
	return strings.Join(n.Tokens(raw), " ")
}
