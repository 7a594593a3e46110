package gdocs_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/gdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_FindFolder(t *testing.T) {
	t.Parallel()

	t.Run("finds a folder by name", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()
		id := g.add("Bob's Clips", gdocs.FolderMimeType, "root")
		g.add("Bob's Clips", gdocs.DocumentMimeType, "root")

		f, err := g.store(t).FindFolder(context.Background(), "Bob's Clips")

		require.NoError(t, err)
		assert.Equal(t, &clipdoc.Folder{ID: id, Name: "Bob's Clips"}, f)
	})

	t.Run("returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := newFakeGoogle().store(t).FindFolder(context.Background(), "Missing")

		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})

	t.Run("maps rejected credentials to EUNAUTHORIZED", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()
		g.fail(http.StatusUnauthorized)

		_, err := g.store(t).FindFolder(context.Background(), "Clips")

		assert.Equal(t, clipdoc.EUNAUTHORIZED, clipdoc.ErrorCode(err))
	})
}

func TestStore_CreateFolder(t *testing.T) {
	t.Parallel()

	g := newFakeGoogle()
	s := g.store(t)

	created, err := s.CreateFolder(context.Background(), "Clips")
	require.NoError(t, err)
	found, err := s.FindFolder(context.Background(), "Clips")
	require.NoError(t, err)

	assert.Equal(t, created, found)
}

func TestStore_ListDocuments(t *testing.T) {
	t.Parallel()

	g := newFakeGoogle()
	folder := g.add("Clips", gdocs.FolderMimeType, "root")
	top := g.add("Top", gdocs.DocumentMimeType, folder)
	sub := g.add("archive", gdocs.FolderMimeType, folder)
	nested := g.add("Nested", gdocs.DocumentMimeType, sub)
	g.add("Budget", "application/vnd.google-apps.spreadsheet", folder)
	g.add("Elsewhere", gdocs.DocumentMimeType, "root")
	s := g.store(t)

	t.Run("walks nested folders", func(t *testing.T) {
		t.Parallel()

		docs, err := s.ListDocuments(context.Background(), folder)

		require.NoError(t, err)
		assert.Equal(t, []*clipdoc.DocumentRecord{
			{ID: top, Title: "Top", URL: gdocs.DocumentURL(top)},
			{ID: nested, Title: "Nested", URL: gdocs.DocumentURL(nested)},
		}, docs)
	})

	t.Run("finds documents by title", func(t *testing.T) {
		t.Parallel()

		rec, err := s.FindDocumentByTitle(context.Background(), folder, "Nested")
		require.NoError(t, err)
		assert.Equal(t, nested, rec.ID)

		_, err = s.FindDocumentByTitle(context.Background(), folder, "Elsewhere")
		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})
}

func TestStore_CreateAndMoveDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates in root and moves into the folder", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()
		folder := g.add("Clips", gdocs.FolderMimeType, "root")
		s := g.store(t)
		ctx := context.Background()

		rec, err := s.CreateDocument(ctx, "Harbor Reopens")
		require.NoError(t, err)
		require.NoError(t, s.MoveDocument(ctx, rec.ID, folder))

		assert.Equal(t, "Harbor Reopens", rec.Title)
		assert.Equal(t, "https://docs.google.com/document/d/"+rec.ID+"/edit", rec.URL)
		assert.Equal(t, []string{folder}, g.parents(rec.ID))
	})

	t.Run("moving an unknown document", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()

		err := g.store(t).MoveDocument(context.Background(), "missing", "folder")

		assert.Equal(t, clipdoc.ENOTFOUND, clipdoc.ErrorCode(err))
	})
}

func TestStore_ApplyEdits(t *testing.T) {
	t.Parallel()

	edits := clipdoc.BuildEdits([]clipdoc.Block{
		{Kind: clipdoc.BlockHeading, Level: 1, Text: "Title\n"},
		{Kind: clipdoc.BlockParagraph, Text: "Body.\n"},
	})

	t.Run("blank document gets the edits only", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()
		id := g.add("Title", gdocs.DocumentMimeType, "root")

		require.NoError(t, g.store(t).ApplyEdits(context.Background(), id, edits))

		batch := g.lastBatch(id)
		require.Len(t, batch, 2)
		assert.Equal(t, "Title\nBody.\n", batch[0].InsertText.Text)
		assert.Equal(t, int64(1), batch[0].InsertText.Location.Index)
		assert.Equal(t, "HEADING_1", batch[1].UpdateParagraphStyle.ParagraphStyle.NamedStyleType)
	})

	t.Run("reapplying clears the earlier content first", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()
		id := g.add("Title", gdocs.DocumentMimeType, "root")
		s := g.store(t)

		require.NoError(t, s.ApplyEdits(context.Background(), id, edits))
		require.NoError(t, s.ApplyEdits(context.Background(), id, edits))

		batch := g.lastBatch(id)
		require.Len(t, batch, 3)
		require.NotNil(t, batch[0].DeleteContentRange)
		assert.Equal(t, int64(1), batch[0].DeleteContentRange.Range.StartIndex)
		assert.Equal(t, int64(13), batch[0].DeleteContentRange.Range.EndIndex)
		assert.NotNil(t, batch[1].InsertText)
	})

	t.Run("server errors are transient", func(t *testing.T) {
		t.Parallel()

		g := newFakeGoogle()
		id := g.add("Title", gdocs.DocumentMimeType, "root")
		g.fail(http.StatusServiceUnavailable)

		err := g.store(t).ApplyEdits(context.Background(), id, edits)

		assert.Equal(t, clipdoc.ETRANSIENT, clipdoc.ErrorCode(err))
	})
}
