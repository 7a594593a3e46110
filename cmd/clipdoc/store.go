package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/fs"
	"github.com/fwojciec/clipdoc/gdocs"
	"github.com/fwojciec/clipdoc/sqlite"
	"google.golang.org/api/option"
)

// openStore opens the document store selected on the command line. The
// returned closer releases it.
func openStore(ctx context.Context, cli *CLI) (clipdoc.DocumentStore, io.Closer, error) {
	switch cli.Store {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
			return nil, nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "cannot create database directory")
		}
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			return nil, nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "cannot open database %s", cli.DB)
		}
		return sqlite.NewStore(db), db, nil

	case "gdocs":
		client, err := gdocs.Client(ctx, cli.Credentials, cli.Token)
		if err != nil {
			return nil, nil, err
		}
		store, err := gdocs.NewStore(ctx, option.WithHTTPClient(client))
		if err != nil {
			return nil, nil, err
		}
		return store, io.NopCloser(nil), nil

	default:
		store, err := fs.NewStore(cli.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, io.NopCloser(nil), nil
	}
}

// resolveFolder finds the target folder, creating it when allowed and
// supported by the store.
func resolveFolder(ctx context.Context, store clipdoc.DocumentStore, name string, create bool) (*clipdoc.Folder, error) {
	folder, err := store.FindFolder(ctx, name)
	if err == nil || !create || clipdoc.ErrorCode(err) != clipdoc.ENOTFOUND {
		return folder, err
	}
	creator, ok := store.(clipdoc.FolderCreator)
	if !ok {
		return nil, clipdoc.Errorf(clipdoc.EPRECONDITION, "store cannot create folder %q", name)
	}
	return creator.CreateFolder(ctx, name)
}
