package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/clipdoc"
)

// Ensure decorators implement their interfaces.
var (
	_ clipdoc.Fetcher   = (*Fetcher)(nil)
	_ clipdoc.Racer     = (*Racer)(nil)
	_ clipdoc.Publisher = (*Publisher)(nil)
)

// Fetcher records fetch durations and errors of a backend.
type Fetcher struct {
	next    clipdoc.Fetcher
	backend string
	metrics *Metrics
}

// NewFetcher wraps next.
func NewFetcher(next clipdoc.Fetcher, backend clipdoc.Backend, m *Metrics) *Fetcher {
	return &Fetcher{next: next, backend: string(backend), metrics: m}
}

// Fetch delegates to the wrapped fetcher.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	f.metrics.FetchDuration.WithLabelValues(f.backend).Observe(time.Since(begin).Seconds())
	if err != nil {
		f.metrics.FetchErrors.WithLabelValues(f.backend, clipdoc.ErrorCode(err)).Inc()
	}
	return html, err
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}

// Racer records winning strategies and failed races.
type Racer struct {
	next    clipdoc.Racer
	metrics *Metrics
}

// NewRacer wraps next.
func NewRacer(next clipdoc.Racer, m *Metrics) *Racer {
	return &Racer{next: next, metrics: m}
}

// Race delegates to the wrapped racer.
func (r *Racer) Race(ctx context.Context, url string) (*clipdoc.ExtractionResult, error) {
	res, err := r.next.Race(ctx, url)
	if err != nil {
		r.metrics.RaceFailures.WithLabelValues(clipdoc.ErrorCode(err)).Inc()
		return nil, err
	}
	r.metrics.RaceWins.WithLabelValues(res.Strategy.String()).Inc()
	r.metrics.ExtractedChars.Observe(float64(res.Length))
	return res, nil
}

// Publisher records publish results.
type Publisher struct {
	next    clipdoc.Publisher
	metrics *Metrics
}

// NewPublisher wraps next.
func NewPublisher(next clipdoc.Publisher, m *Metrics) *Publisher {
	return &Publisher{next: next, metrics: m}
}

// Publish delegates to the wrapped publisher.
func (p *Publisher) Publish(ctx context.Context, url string, result *clipdoc.ExtractionResult) (*clipdoc.Publication, error) {
	pub, err := p.next.Publish(ctx, url, result)
	switch {
	case err != nil:
		p.metrics.Publications.WithLabelValues("failed").Inc()
	case pub.Applied:
		p.metrics.Publications.WithLabelValues("written").Inc()
	default:
		p.metrics.Publications.WithLabelValues("reused").Inc()
	}
	return pub, err
}
