package crawl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/crawl"
	"github.com/fwojciec/clipdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func winner() *clipdoc.ExtractionResult {
	return clipdoc.NewExtractionResult(
		clipdoc.Strategy{Backend: clipdoc.BackendBrowser, Role: clipdoc.RoleMulti, Algorithm: "multi-container"},
		"<html>raw</html>", "<div>original</div>", "original", "Original Title")
}

func TestRefiner_Refine(t *testing.T) {
	t.Parallel()

	t.Run("runs each stage in order", func(t *testing.T) {
		t.Parallel()

		var stages []string
		r := &crawl.Refiner{
			Cleaner: &mock.Cleaner{CleanFn: func(html string) (string, error) {
				stages = append(stages, "clean")
				return html + "|clean", nil
			}},
			MainContent: func(html string) (string, bool, error) {
				stages = append(stages, "main")
				return html + "|main", true, nil
			},
			Pruner: &mock.Pruner{PruneFn: func(html string) (string, error) {
				stages = append(stages, "prune")
				return html + "|prune", nil
			}},
			Converter: &mock.Converter{ConvertFn: func(html string) (string, error) {
				stages = append(stages, "convert")
				return "md:" + html, nil
			}},
			Filter: func(md string) string {
				stages = append(stages, "filter")
				return strings.ToUpper(md)
			},
		}

		got, err := r.Refine(winner())

		require.NoError(t, err)
		assert.Equal(t, []string{"clean", "main", "prune", "convert", "filter"}, stages)
		assert.Equal(t, "<div>original</div>|clean|main|prune", got.ContentHTML)
		assert.Equal(t, "MD:<DIV>ORIGINAL</DIV>|CLEAN|MAIN|PRUNE", got.Markdown)
		assert.Equal(t, "Original Title", got.Title)
		assert.Equal(t, "browser+multi-container", got.Strategy.String())
		assert.Equal(t, "<html>raw</html>", got.RawHTML)
	})

	t.Run("keeps cleaned HTML when no main area qualifies", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Refiner{
			MainContent: func(string) (string, bool, error) { return "ignored", false, nil },
			Converter:   identityConverter(),
		}

		got, err := r.Refine(winner())

		require.NoError(t, err)
		assert.Equal(t, "<div>original</div>", got.ContentHTML)
	})

	t.Run("returns the original when pruning empties the content", func(t *testing.T) {
		t.Parallel()

		orig := winner()
		r := &crawl.Refiner{
			Pruner:    &mock.Pruner{PruneFn: func(string) (string, error) { return " ", nil }},
			Converter: identityConverter(),
		}

		got, err := r.Refine(orig)

		require.NoError(t, err)
		assert.Same(t, orig, got)
	})

	t.Run("returns the original when filtering empties the markdown", func(t *testing.T) {
		t.Parallel()

		orig := winner()
		r := &crawl.Refiner{
			Converter: identityConverter(),
			Filter:    func(string) string { return "" },
		}

		got, err := r.Refine(orig)

		require.NoError(t, err)
		assert.Same(t, orig, got)
	})

	t.Run("stage errors are returned", func(t *testing.T) {
		t.Parallel()

		r := &crawl.Refiner{
			Cleaner:   &mock.Cleaner{CleanFn: func(string) (string, error) { return "", errors.New("bad markup") }},
			Converter: identityConverter(),
		}

		_, err := r.Refine(winner())

		assert.EqualError(t, err, "bad markup")
	})
}
