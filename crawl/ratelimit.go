package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/time/rate"
)

// DomainLimiter provides per-host rate limiting using token buckets, so
// many URLs on one site don't hammer it while other sites proceed freely.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests
// per second. Each host gets its own limiter with a burst of 1.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// WaitURL is Wait for the host of rawURL.
func (d *DomainLimiter) WaitURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return clipdoc.Errorf(clipdoc.EINVALID, "invalid URL %q", rawURL)
	}
	return d.Wait(ctx, u.Hostname())
}
