package clipdoc

import "context"

// Folder is a container of documents in a document store.
type Folder struct {
	ID   string
	Name string
}

// DocumentRecord identifies a document in a store.
type DocumentRecord struct {
	ID    string
	Title string

	// URL is a reference to the document that can be shown to the user.
	URL string

	// CreatedInRun is true when the document was created during the
	// current run. Such documents may be missing some or all content.
	CreatedInRun bool
}

// DocumentStore is the document-store collaborator.
type DocumentStore interface {
	// FindFolder returns the folder with the given name.
	// Returns ENOTFOUND if no such folder exists.
	FindFolder(ctx context.Context, name string) (*Folder, error)

	// ListDocuments returns every document under the folder, including
	// those in nested folders.
	ListDocuments(ctx context.Context, folderID string) ([]*DocumentRecord, error)

	// FindDocumentByTitle searches the folder recursively.
	// Returns ENOTFOUND if no document has the title.
	FindDocumentByTitle(ctx context.Context, folderID, title string) (*DocumentRecord, error)

	// CreateDocument creates a blank document.
	CreateDocument(ctx context.Context, title string) (*DocumentRecord, error)

	// MoveDocument re-parents a document into a folder.
	MoveDocument(ctx context.Context, docID, folderID string) error

	// ApplyEdits applies a batch of edits built for an empty document.
	// Existing content is replaced, so applying the same batch twice
	// leaves the document in the same state as applying it once.
	ApplyEdits(ctx context.Context, docID string, edits []Edit) error
}

// FolderCreator is implemented by stores that can create folders.
type FolderCreator interface {
	CreateFolder(ctx context.Context, name string) (*Folder, error)
}

// Publication is the result of writing an extraction to a store.
type Publication struct {
	Document *DocumentRecord

	// Applied is false when an existing document was reused as is.
	Applied bool
}

// Publisher writes an extraction result into a document.
type Publisher interface {
	Publish(ctx context.Context, url string, result *ExtractionResult) (*Publication, error)
}
