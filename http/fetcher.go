// Package http provides an HTTP-based implementation of clipdoc.Fetcher
// for pages that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default total timeout for a request.
const DefaultFetchTimeout = 30 * time.Second

// MaxBodySize caps the number of bytes read from a response.
const MaxBodySize = 20 << 20

// UserAgent is the desktop Chrome user agent sent with every request.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultHeaders are sent with every request.
var DefaultHeaders = map[string]string{
	"User-Agent":      UserAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Ensure Fetcher implements clipdoc.Fetcher at compile time.
var _ clipdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	headers map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeader sets or overrides a request header.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers[key] = value
	}
}

// WithTransport sets the round tripper used by the underlying client.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		timeout: DefaultFetchTimeout,
		headers: make(map[string]string, len(DefaultHeaders)),
	}
	for k, v := range DefaultHeaders {
		f.headers[k] = v
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client.Timeout = f.timeout
	return f
}

// Fetch retrieves the HTML content from the given URL, decoded to UTF-8.
// Network failures and non-2xx responses are ETRANSIENT.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.EINVALID, "bad request for %s", url)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "request failed for %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", clipdoc.Errorf(clipdoc.ETRANSIENT, "HTTP %d for %s", resp.StatusCode, url)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "decode body of %s", url)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "read body of %s", url)
	}

	return string(body), nil
}

// Close is a no-op. http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
