package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *fs.Store {
	t.Helper()
	s, err := fs.NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func createIn(t *testing.T, s *fs.Store, folderID, title string) *clipdoc.DocumentRecord {
	t.Helper()
	ctx := context.Background()
	rec, err := s.CreateDocument(ctx, title)
	require.NoError(t, err)
	require.NoError(t, s.MoveDocument(ctx, rec.ID, folderID))
	return rec
}

func TestStore_Folders(t *testing.T) {
	t.Parallel()

	t.Run("creates and finds a folder", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()

		created, err := s.CreateFolder(ctx, "Clips")
		require.NoError(t, err)
		found, err := s.FindFolder(ctx, "Clips")

		require.NoError(t, err)
		assert.Equal(t, created, found)
		assert.DirExists(t, filepath.Join(s.Root(), "Clips"))
	})

	t.Run("finds nested folders by name and path", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()
		_, err := s.CreateFolder(ctx, "news/2024")
		require.NoError(t, err)

		byName, err := s.FindFolder(ctx, "2024")
		require.NoError(t, err)
		byPath, err := s.FindFolder(ctx, "news/2024")
		require.NoError(t, err)

		assert.Equal(t, "news/2024", byName.ID)
		assert.Equal(t, "news/2024", byPath.ID)
	})

	t.Run("unknown folder", func(t *testing.T) {
		t.Parallel()

		_, err := newStore(t).FindFolder(context.Background(), "Missing")

		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})

	t.Run("rejects folders outside the root", func(t *testing.T) {
		t.Parallel()

		_, err := newStore(t).CreateFolder(context.Background(), "../escape")

		assert.Equal(t, clipdoc.EINVALID, clipdoc.ErrorCode(err))
	})
}

func TestStore_Documents(t *testing.T) {
	t.Parallel()

	t.Run("created documents are moved into the folder", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		_, err := s.CreateFolder(context.Background(), "Clips")
		require.NoError(t, err)

		rec := createIn(t, s, "Clips", "Budget Vote")

		assert.FileExists(t, filepath.Join(s.Root(), "Clips", "Budget Vote.md"))
		assert.NoFileExists(t, filepath.Join(s.Root(), "Budget Vote.md"))
		assert.Equal(t, "file://"+filepath.ToSlash(s.Root())+"#"+rec.ID, rec.URL)
	})

	t.Run("lists nested documents and skips foreign files", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()
		_, err := s.CreateFolder(ctx, "Clips/archive")
		require.NoError(t, err)
		createIn(t, s, "Clips", "Top")
		createIn(t, s, "Clips/archive", "Nested")
		require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "Clips", "README.md"), []byte("# Notes\n"), 0644))

		docs, err := s.ListDocuments(ctx, "Clips")

		require.NoError(t, err)
		var titles []string
		for _, d := range docs {
			titles = append(titles, d.Title)
		}
		assert.ElementsMatch(t, []string{"Top", "Nested"}, titles)
	})

	t.Run("finds documents by title", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()
		_, err := s.CreateFolder(ctx, "Clips/archive")
		require.NoError(t, err)
		rec := createIn(t, s, "Clips/archive", "Harbor Reopens")

		got, err := s.FindDocumentByTitle(ctx, "Clips", "Harbor Reopens")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)

		_, err = s.FindDocumentByTitle(ctx, "Clips", "Nope")
		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})

	t.Run("same file name gets a suffix", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		_, err := s.CreateFolder(context.Background(), "Clips")
		require.NoError(t, err)

		createIn(t, s, "Clips", "A/B")
		createIn(t, s, "Clips", "A/B")

		assert.FileExists(t, filepath.Join(s.Root(), "Clips", "A-B.md"))
		assert.FileExists(t, filepath.Join(s.Root(), "Clips", "A-B (2).md"))
	})

	t.Run("unknown document", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)

		err := s.MoveDocument(context.Background(), "missing", ".")

		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})

	t.Run("moving into a missing folder", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		rec, err := s.CreateDocument(context.Background(), "Doc")
		require.NoError(t, err)

		err = s.MoveDocument(context.Background(), rec.ID, "Missing")

		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})
}

func TestStore_ApplyEdits(t *testing.T) {
	t.Parallel()

	edits := clipdoc.BuildEdits([]clipdoc.Block{
		{Kind: clipdoc.BlockHeading, Level: 1, Text: "Title\n"},
		{Kind: clipdoc.BlockParagraph, Text: "Body.\n"},
	})

	t.Run("writes rendered markdown with frontmatter", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()
		rec := createIn(t, s, ".", "Title")

		require.NoError(t, s.ApplyEdits(ctx, rec.ID, edits))

		fm, body, err := s.ReadDocument(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, fm.ID)
		assert.Equal(t, "Title", fm.Title)
		assert.Equal(t, "# Title\n\nBody.\n", body)
		assert.Len(t, fm.Hash, 16)

		raw, err := os.ReadFile(filepath.Join(s.Root(), "Title.md"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(raw), "---\nid: "+rec.ID+"\n"))
	})

	t.Run("reapplying the same edits leaves the file unchanged", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()
		rec := createIn(t, s, ".", "Title")
		path := filepath.Join(s.Root(), "Title.md")

		require.NoError(t, s.ApplyEdits(ctx, rec.ID, edits))
		first, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, s.ApplyEdits(ctx, rec.ID, edits))
		second, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
	})

	t.Run("finds documents written by an earlier store", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		first, err := fs.NewStore(dir)
		require.NoError(t, err)
		rec, err := first.CreateDocument(context.Background(), "Kept")
		require.NoError(t, err)

		second, err := fs.NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, second.ApplyEdits(context.Background(), rec.ID, edits))

		_, body, err := second.ReadDocument(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Contains(t, body, "Body.")
	})

	t.Run("invalid edits", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		rec := createIn(t, s, ".", "Title")

		err := s.ApplyEdits(context.Background(), rec.ID, []clipdoc.Edit{{Kind: clipdoc.EditInsertText, Index: 9, Text: "x"}})

		assert.Equal(t, clipdoc.EINVALID, clipdoc.ErrorCode(err))
	})
}
