package gdocs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/gdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testCredentials = `{"installed":{"client_id":"id","client_secret":"secret",
"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",
"redirect_uris":["http://localhost"]}}`

func TestLoadToken(t *testing.T) {
	t.Parallel()

	t.Run("missing token is unauthorized", func(t *testing.T) {
		t.Parallel()

		_, err := gdocs.LoadToken(filepath.Join(t.TempDir(), "token.json"))

		assert.Equal(t, clipdoc.EUNAUTHORIZED, clipdoc.ErrorCode(err))
	})

	t.Run("empty token is unauthorized", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0600))

		_, err := gdocs.LoadToken(path)

		assert.Equal(t, clipdoc.EUNAUTHORIZED, clipdoc.ErrorCode(err))
	})

	t.Run("reads a saved token", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "token.json")
		require.NoError(t, gdocs.SaveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))

		tok, err := gdocs.LoadToken(path)

		require.NoError(t, err)
		assert.Equal(t, "r", tok.RefreshToken)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}

func TestClient(t *testing.T) {
	t.Parallel()

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		_, err := gdocs.Client(context.Background(), filepath.Join(dir, "creds.json"), filepath.Join(dir, "token.json"))

		assert.Equal(t, clipdoc.EPRECONDITION, clipdoc.ErrorCode(err))
	})

	t.Run("credentials without token", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		creds := filepath.Join(dir, "creds.json")
		require.NoError(t, os.WriteFile(creds, []byte(testCredentials), 0600))

		_, err := gdocs.Client(context.Background(), creds, filepath.Join(dir, "token.json"))

		assert.Equal(t, clipdoc.EUNAUTHORIZED, clipdoc.ErrorCode(err))
	})

	t.Run("authorized client", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		creds := filepath.Join(dir, "creds.json")
		token := filepath.Join(dir, "token.json")
		require.NoError(t, os.WriteFile(creds, []byte(testCredentials), 0600))
		require.NoError(t, gdocs.SaveToken(token, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))

		client, err := gdocs.Client(context.Background(), creds, token)

		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}
