package domain

import (
	"strings"
	"time"
)

// minTextLen is the minimum length for alt/title text on an accepted descriptor.
const minTextLen = 3

// ImageDescriptor describes one externally sourced image result.
type ImageDescriptor struct {
	URL       string
	Alt       string
	Source    string
	Title     string
	Timestamp time.Time
}

// Valid reports whether the descriptor meets the acceptance contract:
// an http(s) URL and non-trivial alt/title text. Rejected candidates are
// dropped by the fetcher, not surfaced as errors.
func (d ImageDescriptor) Valid() bool {
	if !strings.HasPrefix(d.URL, "http://") && !strings.HasPrefix(d.URL, "https://") {
		return false
	}
	return len(d.Alt) > minTextLen && len(d.Title) > minTextLen
}
