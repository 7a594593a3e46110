// Package trafilatura implements the primary extraction algorithm with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/clipdoc"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements clipdoc.Extractor at compile time.
var _ clipdoc.Extractor = (*Extractor)(nil)

// Name identifies this algorithm in strategy tags.
const Name = "trafilatura"

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor that keeps links and falls back
// to readability and dom-distiller when its own heuristics find nothing.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
			IncludeLinks:   true,
		},
	}
}

// Name returns the algorithm name.
func (e *Extractor) Name() string {
	return Name
}

// Extract processes raw HTML and returns the main content. A page where
// trafilatura finds nothing yields an empty result.
func (e *Extractor) Extract(rawHTML string) (*clipdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return &clipdoc.ExtractResult{}, nil
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &clipdoc.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
