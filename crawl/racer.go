package crawl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Ensure Racer implements clipdoc.Racer.
var _ clipdoc.Racer = (*Racer)(nil)

// Default per-backend concurrency limits.
const (
	DefaultHTTPConcurrency    = 15
	DefaultBrowserConcurrency = 15
)

// Racer runs every fetch backend in parallel for a URL, extracts each page
// with every algorithm and keeps the longest result.
type Racer struct {
	HTTP    clipdoc.Fetcher
	Browser clipdoc.Fetcher // optional; nil runs http strategies only

	Primary   clipdoc.Extractor
	Multi     clipdoc.Extractor // optional
	Converter clipdoc.Converter
	Refiner   *Refiner       // optional
	Limiter   *DomainLimiter // optional, applied before each HTTP attempt

	HTTPConcurrency    int
	BrowserConcurrency int

	// Backoff delays between attempts. Nil uses the defaults; an empty
	// slice disables retries.
	HTTPDelays    []time.Duration
	BrowserDelays []time.Duration

	Logger *slog.Logger

	once       sync.Once
	httpSem    *semaphore.Weighted
	browserSem *semaphore.Weighted
}

// backend is one fetch path taken during a race.
type backend struct {
	kind    clipdoc.Backend
	fetcher clipdoc.Fetcher
	sem     *semaphore.Weighted
	delays  []time.Duration
	limit   bool
}

func (r *Racer) init() {
	r.once.Do(func() {
		n := r.HTTPConcurrency
		if n <= 0 {
			n = DefaultHTTPConcurrency
		}
		r.httpSem = semaphore.NewWeighted(int64(n))

		n = r.BrowserConcurrency
		if n <= 0 {
			n = DefaultBrowserConcurrency
		}
		r.browserSem = semaphore.NewWeighted(int64(n))

		if r.HTTPDelays == nil {
			r.HTTPDelays = DefaultHTTPDelays()
		}
		if r.BrowserDelays == nil {
			r.BrowserDelays = DefaultBrowserDelays()
		}
		if r.Logger == nil {
			r.Logger = slog.New(slog.DiscardHandler)
		}
	})
}

func (r *Racer) backends() []backend {
	out := []backend{{
		kind:    clipdoc.BackendHTTP,
		fetcher: r.HTTP,
		sem:     r.httpSem,
		delays:  r.HTTPDelays,
		limit:   r.Limiter != nil,
	}}
	if r.Browser != nil {
		out = append(out, backend{
			kind:    clipdoc.BackendBrowser,
			fetcher: r.Browser,
			sem:     r.browserSem,
			delays:  r.BrowserDelays,
		})
	}
	return out
}

// Race runs all strategies for url and returns the best result. Returns
// EEXHAUSTED wrapping the HTTP error, or the browser error when HTTP
// produced none, when no strategy yielded content.
func (r *Racer) Race(ctx context.Context, url string) (*clipdoc.ExtractionResult, error) {
	r.init()

	backends := r.backends()
	results := make([][]*clipdoc.ExtractionResult, len(backends))
	errs := make([]error, len(backends))

	var g errgroup.Group
	for i, b := range backends {
		g.Go(func() error {
			results[i], errs[i] = r.run(ctx, url, b)
			return nil
		})
	}
	_ = g.Wait()

	var all []*clipdoc.ExtractionResult
	for _, rs := range results {
		all = append(all, rs...)
	}
	best := clipdoc.SelectBest(all)
	if best == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var cause error
		for _, err := range errs {
			if err != nil {
				cause = err
				break
			}
		}
		return nil, clipdoc.Wrapf(cause, clipdoc.EEXHAUSTED, "no strategy extracted content from %s", url)
	}

	if r.Refiner != nil {
		refined, err := r.Refiner.Refine(best)
		if err != nil {
			r.Logger.Debug("refine failed", "url", url, "err", err)
		} else {
			best = refined
		}
	}
	return best, nil
}

// run performs the retried attempts of one backend.
func (r *Racer) run(ctx context.Context, url string, b backend) ([]*clipdoc.ExtractionResult, error) {
	onRetry := func(attempt int, err error, delay time.Duration) {
		r.Logger.Info("retry",
			"url", url,
			"backend", b.kind,
			"attempt", attempt,
			"delay", delay,
			"err", err,
		)
	}
	return Retry(ctx, b.delays, onRetry, func(ctx context.Context) ([]*clipdoc.ExtractionResult, error) {
		return r.attempt(ctx, url, b)
	})
}

// attempt holds the backend's semaphore for a single fetch and extraction.
func (r *Racer) attempt(ctx context.Context, url string, b backend) ([]*clipdoc.ExtractionResult, error) {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer b.sem.Release(1)

	if b.limit {
		if err := r.Limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	html, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	results := r.extract(b.kind, html)
	if clipdoc.SelectBest(results) == nil {
		return nil, clipdoc.Errorf(clipdoc.ETRANSIENT, "empty extraction from %s backend", b.kind)
	}
	return results, nil
}

// extract runs every algorithm over html. Algorithms that fail or find
// nothing contribute no candidate. Every candidate carries the primary
// algorithm's metadata title.
func (r *Racer) extract(kind clipdoc.Backend, html string) []*clipdoc.ExtractionResult {
	type slot struct {
		role clipdoc.Role
		ext  clipdoc.Extractor
	}
	slots := []slot{{clipdoc.RolePrimary, r.Primary}}
	if r.Multi != nil {
		slots = append(slots, slot{clipdoc.RoleMulti, r.Multi})
	}

	var title string
	var out []*clipdoc.ExtractionResult
	for _, s := range slots {
		res, err := s.ext.Extract(html)
		if err != nil || res == nil {
			continue
		}
		if s.role == clipdoc.RolePrimary {
			title = res.Title
		}
		if strings.TrimSpace(res.ContentHTML) == "" {
			continue
		}
		md, err := r.Converter.Convert(res.ContentHTML)
		if err != nil {
			continue
		}
		strategy := clipdoc.Strategy{Backend: kind, Role: s.role, Algorithm: s.ext.Name()}
		out = append(out, clipdoc.NewExtractionResult(strategy, html, res.ContentHTML, md, ""))
	}
	for _, res := range out {
		res.Title = title
	}
	return out
}
