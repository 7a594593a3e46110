package mock

import (
	"context"

	"github.com/fwojciec/clipdoc"
)

var (
	_ clipdoc.Racer     = (*Racer)(nil)
	_ clipdoc.Publisher = (*Publisher)(nil)
)

// Racer is a mock implementation of clipdoc.Racer.
type Racer struct {
	RaceFn func(ctx context.Context, url string) (*clipdoc.ExtractionResult, error)
}

func (r *Racer) Race(ctx context.Context, url string) (*clipdoc.ExtractionResult, error) {
	return r.RaceFn(ctx, url)
}

// Publisher is a mock implementation of clipdoc.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, url string, result *clipdoc.ExtractionResult) (*clipdoc.Publication, error)
}

func (p *Publisher) Publish(ctx context.Context, url string, result *clipdoc.ExtractionResult) (*clipdoc.Publication, error) {
	return p.PublishFn(ctx, url, result)
}
