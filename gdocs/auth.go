package gdocs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
)

// Scopes are the OAuth scopes the store needs.
var Scopes = []string{docs.DocumentsScope, drive.DriveScope}

// Client returns an HTTP client authorized with the OAuth client
// credentials and the saved user token. Returns EPRECONDITION when the
// credentials cannot be read and EUNAUTHORIZED when no token is saved.
func Client(ctx context.Context, credentialsFile, tokenFile string) (*http.Client, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "cannot read credentials %s", credentialsFile)
	}
	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "invalid credentials %s", credentialsFile)
	}
	tok, err := LoadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	return cfg.Client(ctx, tok), nil
}

// LoadToken reads a saved OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, clipdoc.Errorf(clipdoc.EUNAUTHORIZED, "no saved token at %s", path)
	}
	if err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EUNAUTHORIZED, "cannot read token %s", path)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EUNAUTHORIZED, "invalid token %s", path)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, clipdoc.Errorf(clipdoc.EUNAUTHORIZED, "token %s has no credentials", path)
	}
	return &tok, nil
}

// SaveToken writes an OAuth token readable only by the current user.
func SaveToken(path string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}
