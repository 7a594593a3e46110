package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/crawl"
	"github.com/fwojciec/clipdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelays = []time.Duration{0, 0, 0}

func TestRacer_Race(t *testing.T) {
	t.Parallel()

	t.Run("picks the longest result across all strategies", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Racer{
			HTTP:          staticFetcher("h"),
			Browser:       staticFetcher("b"),
			Primary:       mapExtractor("trafilatura", map[string]string{"h": "aaaa", "b": "aaaaaa"}),
			Multi:         mapExtractor("multi-container", map[string]string{"h": "aaaaaaaa"}),
			Converter:     identityConverter(),
			HTTPDelays:    noDelays,
			BrowserDelays: noDelays,
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "http+multi-container", got.Strategy.String())
		assert.Equal(t, 8, got.Length)
		assert.Equal(t, "T-h", got.Title)
		assert.Equal(t, "h", got.RawHTML)
	})

	t.Run("ties go to the cheapest strategy", func(t *testing.T) {
		t.Parallel()

		same := map[string]string{"h": "same", "b": "same"}
		r := &crawl.Racer{
			HTTP:          staticFetcher("h"),
			Browser:       staticFetcher("b"),
			Primary:       mapExtractor("trafilatura", same),
			Multi:         mapExtractor("multi-container", same),
			Converter:     identityConverter(),
			HTTPDelays:    noDelays,
			BrowserDelays: noDelays,
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "http+trafilatura", got.Strategy.String())
	})

	t.Run("browser wins when http keeps timing out", func(t *testing.T) {
		t.Parallel()

		var httpCalls atomic.Int32
		r := &crawl.Racer{
			HTTP: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				httpCalls.Add(1)
				return "", clipdoc.Wrapf(context.DeadlineExceeded, clipdoc.ETRANSIENT, "request failed")
			}},
			Browser:       staticFetcher("b"),
			Primary:       mapExtractor("trafilatura", map[string]string{"b": "rendered text"}),
			Converter:     identityConverter(),
			HTTPDelays:    []time.Duration{0, 0},
			BrowserDelays: noDelays,
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "browser+trafilatura", got.Strategy.String())
		assert.Equal(t, "rendered text", got.Markdown)
		assert.Equal(t, int32(3), httpCalls.Load())
	})

	t.Run("runs http strategies only without a browser", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Racer{
			HTTP:       staticFetcher("h"),
			Primary:    mapExtractor("readability", map[string]string{"h": "text"}),
			Multi:      mapExtractor("multi-container", nil),
			Converter:  identityConverter(),
			HTTPDelays: noDelays,
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "http+readability", got.Strategy.String())
	})

	t.Run("retries attempts that extract nothing", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		r := &crawl.Racer{
			HTTP: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				if calls.Add(1) < 3 {
					return "empty", nil
				}
				return "full", nil
			}},
			Primary:    mapExtractor("trafilatura", map[string]string{"full": "article"}),
			Converter:  identityConverter(),
			HTTPDelays: noDelays,
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "article", got.Markdown)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("reports exhaustion with the http error first", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Racer{
			HTTP: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				return "", clipdoc.Errorf(clipdoc.ETRANSIENT, "HTTP 503 for https://example.com")
			}},
			Browser: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("navigation failed")
			}},
			Primary:       mapExtractor("trafilatura", nil),
			Converter:     identityConverter(),
			HTTPDelays:    []time.Duration{},
			BrowserDelays: []time.Duration{},
		}

		_, err := r.Race(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, clipdoc.EEXHAUSTED, clipdoc.ErrorCode(err))
		assert.Contains(t, clipdoc.ErrorMessage(err), "HTTP 503")
	})

	t.Run("skips extractors and converters that fail", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Racer{
			HTTP: staticFetcher("h"),
			Primary: &mock.Extractor{
				NameFn:    func() string { return "trafilatura" },
				ExtractFn: func(string) (*clipdoc.ExtractResult, error) { return nil, errors.New("parse error") },
			},
			Multi:     mapExtractor("multi-container", map[string]string{"h": "split article"}),
			Converter: identityConverter(),
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "http+multi-container", got.Strategy.String())
		assert.Empty(t, got.Title)
	})

	t.Run("applies the refiner to the winner", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Racer{
			HTTP:      staticFetcher("h"),
			Primary:   mapExtractor("trafilatura", map[string]string{"h": "<nav>menu</nav><p>story</p>"}),
			Converter: identityConverter(),
			Refiner: &crawl.Refiner{
				Cleaner: &mock.Cleaner{CleanFn: func(html string) (string, error) {
					return strings.Replace(html, "<nav>menu</nav>", "", 1), nil
				}},
				Converter: identityConverter(),
			},
		}

		got, err := r.Race(context.Background(), "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, "<p>story</p>", got.Markdown)
		assert.Equal(t, "T-h", got.Title)
	})
}

func TestRacer_Race_BoundsConcurrencyPerBackend(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	fetch := func(context.Context, string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return "h", nil
	}
	r := &crawl.Racer{
		HTTP:            &mock.Fetcher{FetchFn: fetch},
		Primary:         mapExtractor("trafilatura", map[string]string{"h": "text"}),
		Converter:       identityConverter(),
		HTTPConcurrency: 2,
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Race(context.Background(), "https://example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}
