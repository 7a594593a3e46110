package crawl

import (
	"strings"

	"github.com/fwojciec/clipdoc"
)

// Refiner tightens a winning extraction: it pre-cleans the content HTML,
// narrows it to the main content area when one can be located, prunes
// low-scoring subtrees and converts the result again.
type Refiner struct {
	Cleaner   clipdoc.Cleaner
	Pruner    clipdoc.Pruner
	Converter clipdoc.Converter

	// MainContent optionally narrows HTML to its main content area. The
	// second result is false when no area qualifies.
	MainContent func(html string) (string, bool, error)

	// Filter optionally post-processes the converted markdown.
	Filter func(markdown string) string
}

// Refine returns a refined copy of res. When refinement leaves no text the
// original result is returned unchanged.
func (r *Refiner) Refine(res *clipdoc.ExtractionResult) (*clipdoc.ExtractionResult, error) {
	html := res.ContentHTML
	var err error

	if r.Cleaner != nil {
		if html, err = r.Cleaner.Clean(html); err != nil {
			return nil, err
		}
	}
	if r.MainContent != nil {
		main, ok, err := r.MainContent(html)
		if err != nil {
			return nil, err
		}
		if ok {
			html = main
		}
	}
	if r.Pruner != nil {
		if html, err = r.Pruner.Prune(html); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(html) == "" {
		return res, nil
	}

	md, err := r.Converter.Convert(html)
	if err != nil {
		return nil, err
	}
	if r.Filter != nil {
		md = r.Filter(md)
	}

	refined := clipdoc.NewExtractionResult(res.Strategy, res.RawHTML, html, md, res.Title)
	if refined.Length == 0 {
		return res, nil
	}
	return refined, nil
}
