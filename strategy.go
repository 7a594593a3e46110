package clipdoc

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Backend identifies how a page was fetched.
type Backend string

// Fetch backends, cheapest first.
const (
	BackendHTTP    Backend = "http"
	BackendBrowser Backend = "browser"
)

// Role identifies which extraction slot an algorithm fills.
type Role int

// Extraction roles. The primary algorithm is preferred on ties.
const (
	RolePrimary Role = iota
	RoleMulti
)

// Strategy pairs a fetch backend with an extraction algorithm.
type Strategy struct {
	Backend   Backend
	Role      Role
	Algorithm string
}

// String returns the strategy tag, e.g. "http+trafilatura".
func (s Strategy) String() string {
	return string(s.Backend) + "+" + s.Algorithm
}

// Priority returns the fixed tie-break rank of the strategy. Lower wins:
// http+primary, http+multi, browser+primary, browser+multi.
func (s Strategy) Priority() int {
	p := int(s.Role)
	if s.Backend == BackendBrowser {
		p += 2
	}
	return p
}

// ExtractionResult is one candidate produced by a strategy for a URL.
type ExtractionResult struct {
	Strategy    Strategy
	RawHTML     string
	ContentHTML string
	Markdown    string
	Title       string

	// Length is the number of characters in the trimmed markdown.
	Length int
}

// NewExtractionResult returns a result with Length computed from markdown.
func NewExtractionResult(s Strategy, rawHTML, contentHTML, markdown, title string) *ExtractionResult {
	return &ExtractionResult{
		Strategy:    s,
		RawHTML:     rawHTML,
		ContentHTML: contentHTML,
		Markdown:    markdown,
		Title:       title,
		Length:      utf8.RuneCountInString(strings.TrimSpace(markdown)),
	}
}

// Better reports whether a ranks above b: longer text first, then lower
// strategy priority.
func Better(a, b *ExtractionResult) bool {
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	return a.Strategy.Priority() < b.Strategy.Priority()
}

// SelectBest returns the best non-empty candidate, or nil if there is none.
func SelectBest(results []*ExtractionResult) *ExtractionResult {
	var best *ExtractionResult
	for _, r := range results {
		if r == nil || r.Length == 0 {
			continue
		}
		if best == nil || Better(r, best) {
			best = r
		}
	}
	return best
}

// Racer produces the single best extraction for a URL.
type Racer interface {
	// Race runs every available strategy for url and returns the winner.
	// Returns EEXHAUSTED wrapping the last error when nothing usable was produced.
	Race(ctx context.Context, url string) (*ExtractionResult, error)
}
