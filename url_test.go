package clipdoc_test

import (
	"testing"

	"github.com/fwojciec/clipdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	t.Run("adds https scheme", func(t *testing.T) {
		t.Parallel()
		got, err := clipdoc.NormalizeURL("  example.com/post ")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/post", got)
	})

	t.Run("keeps http scheme", func(t *testing.T) {
		t.Parallel()
		got, err := clipdoc.NormalizeURL("http://example.com")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com", got)
	})

	for _, in := range []string{"", "ftp://example.com/file", "https://"} {
		t.Run("rejects "+in, func(t *testing.T) {
			t.Parallel()
			_, err := clipdoc.NormalizeURL(in)
			assert.Equal(t, clipdoc.EINVALID, clipdoc.ErrorCode(err))
		})
	}
}
