// Package readability implements the fallback extraction algorithm with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/clipdoc"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements clipdoc.Extractor at compile time.
var _ clipdoc.Extractor = (*Extractor)(nil)

// Name identifies this algorithm in strategy tags.
const Name = "readability"

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name returns the algorithm name.
func (e *Extractor) Name() string {
	return Name
}

// Extract processes raw HTML and returns the main content. A page
// readability cannot parse yields an empty result.
func (e *Extractor) Extract(rawHTML string) (*clipdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return &clipdoc.ExtractResult{}, nil
	}

	return &clipdoc.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
