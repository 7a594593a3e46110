package mock

import (
	"context"

	"github.com/fwojciec/clipdoc"
)

var (
	_ clipdoc.DocumentStore = (*DocumentStore)(nil)
	_ clipdoc.FolderCreator = (*FolderCreator)(nil)
)

// DocumentStore is a mock implementation of clipdoc.DocumentStore.
type DocumentStore struct {
	FindFolderFn          func(ctx context.Context, name string) (*clipdoc.Folder, error)
	ListDocumentsFn       func(ctx context.Context, folderID string) ([]*clipdoc.DocumentRecord, error)
	FindDocumentByTitleFn func(ctx context.Context, folderID, title string) (*clipdoc.DocumentRecord, error)
	CreateDocumentFn      func(ctx context.Context, title string) (*clipdoc.DocumentRecord, error)
	MoveDocumentFn        func(ctx context.Context, docID, folderID string) error
	ApplyEditsFn          func(ctx context.Context, docID string, edits []clipdoc.Edit) error
}

func (s *DocumentStore) FindFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	return s.FindFolderFn(ctx, name)
}

func (s *DocumentStore) ListDocuments(ctx context.Context, folderID string) ([]*clipdoc.DocumentRecord, error) {
	return s.ListDocumentsFn(ctx, folderID)
}

func (s *DocumentStore) FindDocumentByTitle(ctx context.Context, folderID, title string) (*clipdoc.DocumentRecord, error) {
	return s.FindDocumentByTitleFn(ctx, folderID, title)
}

func (s *DocumentStore) CreateDocument(ctx context.Context, title string) (*clipdoc.DocumentRecord, error) {
	return s.CreateDocumentFn(ctx, title)
}

func (s *DocumentStore) MoveDocument(ctx context.Context, docID, folderID string) error {
	return s.MoveDocumentFn(ctx, docID, folderID)
}

func (s *DocumentStore) ApplyEdits(ctx context.Context, docID string, edits []clipdoc.Edit) error {
	return s.ApplyEditsFn(ctx, docID, edits)
}

// FolderCreator is a mock implementation of clipdoc.FolderCreator.
type FolderCreator struct {
	CreateFolderFn func(ctx context.Context, name string) (*clipdoc.Folder, error)
}

func (c *FolderCreator) CreateFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	return c.CreateFolderFn(ctx, name)
}
