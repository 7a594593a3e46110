// Package rod provides a headless Chrome implementation of clipdoc.Fetcher
// for pages that render their content with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/clipdoc"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements clipdoc.Fetcher at compile time.
var _ clipdoc.Fetcher = (*Fetcher)(nil)

// WebdriverMask hides the automation flag from page scripts.
const WebdriverMask = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

// ContentSelector matches the elements that signal an article has rendered.
const ContentSelector = `article, main, [role="main"], .article-content`

// Profile describes how a page is loaded: the identity the browser presents
// and how long to wait for content.
type Profile struct {
	UserAgent      string
	AcceptLanguage string
	Width          int
	Height         int
	Locale         string
	TimezoneID     string
	Headers        map[string]string

	NavigationTimeout time.Duration
	ContentSelector   string
	SelectorTimeout   time.Duration
	FallbackWait      time.Duration
	SettleDelay       time.Duration
}

// DefaultProfile returns a desktop Chrome profile on a US locale.
func DefaultProfile() Profile {
	return Profile{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
		Width:          1920,
		Height:         1080,
		Locale:         "en-US",
		TimezoneID:     "America/New_York",
		Headers: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
			"Sec-Fetch-User":            "?1",
			"Upgrade-Insecure-Requests": "1",
		},
		NavigationTimeout: 45 * time.Second,
		ContentSelector:   ContentSelector,
		SelectorTimeout:   5 * time.Second,
		FallbackWait:      2 * time.Second,
		SettleDelay:       1 * time.Second,
	}
}

// HeaderPairs flattens Headers into the key, value list rod expects.
func (p Profile) HeaderPairs() []string {
	out := make([]string, 0, len(p.Headers)*2)
	for k, v := range p.Headers {
		out = append(out, k, v)
	}
	return out
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithProfile replaces the default page profile.
func WithProfile(p Profile) Option {
	return func(f *Fetcher) {
		f.profile = p
	}
}

// Fetcher retrieves rendered HTML using Chrome. Each fetch runs in its own
// incognito context so cookies and storage never leak between pages.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	profile Profile
}

// NewFetcher creates a Fetcher that takes its browser from manager.
// Closing the Fetcher closes the manager.
func NewFetcher(manager *BrowserManager, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager: manager,
		profile: DefaultProfile(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL, waits for content to appear and returns the
// rendered HTML. Browser failures are ETRANSIENT.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}
	defer f.manager.IncrementPageCount()

	incognito, err := browser.Incognito()
	if err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "creating browser context")
	}
	defer func() { _ = incognito.Close() }()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "opening page")
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	p := f.profile
	if _, err := page.EvalOnNewDocument(WebdriverMask); err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "installing init script")
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      p.UserAgent,
		AcceptLanguage: p.AcceptLanguage,
	}); err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "setting user agent")
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             p.Width,
		Height:            p.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "setting viewport")
	}
	if p.Locale != "" {
		if err := (proto.EmulationSetLocaleOverride{Locale: p.Locale}).Call(page); err != nil {
			return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "setting locale")
		}
	}
	if p.TimezoneID != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: p.TimezoneID}).Call(page); err != nil {
			return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "setting timezone")
		}
	}
	if len(p.Headers) > 0 {
		if _, err := page.SetExtraHeaders(p.HeaderPairs()); err != nil {
			return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "setting headers")
		}
	}

	nav := page
	if p.NavigationTimeout > 0 {
		nav = page.Timeout(p.NavigationTimeout)
		defer nav.CancelTimeout()
	}
	wait := nav.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := nav.Navigate(url); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "navigating to %s", url)
	}
	wait()

	if p.ContentSelector != "" {
		waiting := page.Timeout(p.SelectorTimeout)
		_, err := waiting.Element(p.ContentSelector)
		waiting.CancelTimeout()
		if err != nil {
			if err := sleep(ctx, p.FallbackWait); err != nil {
				return "", err
			}
		}
	}
	if err := sleep(ctx, p.SettleDelay); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", clipdoc.Wrapf(err, clipdoc.ETRANSIENT, "reading rendered HTML")
	}

	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
