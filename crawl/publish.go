package crawl

import (
	"context"

	"github.com/fwojciec/clipdoc"
)

// Ensure DocPublisher implements clipdoc.Publisher.
var _ clipdoc.Publisher = (*DocPublisher)(nil)

// DocPublisher writes extraction results into documents of a DocCache
// folder as structured edits.
type DocPublisher struct {
	Cache  *DocCache
	Store  clipdoc.DocumentStore
	Parser clipdoc.BlockParser
}

// Publish resolves the document title, finds or creates the document and,
// unless it existed before the run, replaces its content.
func (p *DocPublisher) Publish(ctx context.Context, url string, result *clipdoc.ExtractionResult) (*clipdoc.Publication, error) {
	title := clipdoc.ResolveTitle(result.Title, result.Markdown, url)

	rec, apply, err := p.Cache.Resolve(ctx, title)
	if err != nil {
		return nil, err
	}
	if !apply {
		return &clipdoc.Publication{Document: rec}, nil
	}

	blocks, err := p.Parser.Parse(result.Markdown)
	if err != nil {
		return nil, err
	}
	if err := p.Store.ApplyEdits(ctx, rec.ID, clipdoc.BuildEdits(blocks)); err != nil {
		return nil, err
	}
	return &clipdoc.Publication{Document: rec, Applied: true}, nil
}
