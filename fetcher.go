package clipdoc

import "context"

// Fetcher retrieves HTML for a URL.
// Implementations range from a plain HTTP client to a headless browser.
type Fetcher interface {
	// Fetch performs a single attempt and returns the page HTML.
	// A non-success response is an error; retries are the caller's concern.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
