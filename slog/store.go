package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/clipdoc"
)

// Ensure LoggingStore implements the store interfaces.
var (
	_ clipdoc.DocumentStore = (*LoggingStore)(nil)
	_ clipdoc.FolderCreator = (*LoggingStore)(nil)
)

// LoggingStore wraps a DocumentStore with debug logging.
type LoggingStore struct {
	next   clipdoc.DocumentStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next clipdoc.DocumentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

func (s *LoggingStore) log(ctx context.Context, msg string, begin time.Time, err error, args ...any) {
	args = append(args, "duration", time.Since(begin), "err", err)
	s.logger.DebugContext(ctx, msg, args...)
}

// FindFolder delegates to the wrapped store and logs the operation.
func (s *LoggingStore) FindFolder(ctx context.Context, name string) (folder *clipdoc.Folder, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "find folder", begin, err, "name", name)
	}(time.Now())
	return s.next.FindFolder(ctx, name)
}

// CreateFolder delegates to the wrapped store when it can create
// folders. Returns EPRECONDITION otherwise.
func (s *LoggingStore) CreateFolder(ctx context.Context, name string) (folder *clipdoc.Folder, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "create folder", begin, err, "name", name)
	}(time.Now())
	fc, ok := s.next.(clipdoc.FolderCreator)
	if !ok {
		return nil, clipdoc.Errorf(clipdoc.EPRECONDITION, "store cannot create folders")
	}
	return fc.CreateFolder(ctx, name)
}

// ListDocuments delegates to the wrapped store and logs the operation.
func (s *LoggingStore) ListDocuments(ctx context.Context, folderID string) (docs []*clipdoc.DocumentRecord, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "list documents", begin, err, "folder", folderID, "count", len(docs))
	}(time.Now())
	return s.next.ListDocuments(ctx, folderID)
}

// FindDocumentByTitle delegates to the wrapped store and logs the operation.
func (s *LoggingStore) FindDocumentByTitle(ctx context.Context, folderID, title string) (rec *clipdoc.DocumentRecord, err error) {
	defer func(begin time.Time) {
		s.log(ctx, "find document", begin, err, "folder", folderID, "title", title)
	}(time.Now())
	return s.next.FindDocumentByTitle(ctx, folderID, title)
}

// CreateDocument delegates to the wrapped store and logs the operation.
func (s *LoggingStore) CreateDocument(ctx context.Context, title string) (rec *clipdoc.DocumentRecord, err error) {
	defer func(begin time.Time) {
		id := ""
		if rec != nil {
			id = rec.ID
		}
		s.log(ctx, "create document", begin, err, "title", title, "id", id)
	}(time.Now())
	return s.next.CreateDocument(ctx, title)
}

// MoveDocument delegates to the wrapped store and logs the operation.
func (s *LoggingStore) MoveDocument(ctx context.Context, docID, folderID string) (err error) {
	defer func(begin time.Time) {
		s.log(ctx, "move document", begin, err, "id", docID, "folder", folderID)
	}(time.Now())
	return s.next.MoveDocument(ctx, docID, folderID)
}

// ApplyEdits delegates to the wrapped store and logs the operation.
func (s *LoggingStore) ApplyEdits(ctx context.Context, docID string, edits []clipdoc.Edit) (err error) {
	defer func(begin time.Time) {
		s.log(ctx, "apply edits", begin, err, "id", docID, "edits", len(edits))
	}(time.Now())
	return s.next.ApplyEdits(ctx, docID, edits)
}
