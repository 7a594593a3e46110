// Package gdocs provides a document store on Google Docs, with folders and
// document placement managed through Google Drive.
package gdocs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/clipdoc"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Drive MIME types.
const (
	FolderMimeType   = "application/vnd.google-apps.folder"
	DocumentMimeType = "application/vnd.google-apps.document"
)

// Ensure Store implements the store interfaces at compile time.
var (
	_ clipdoc.DocumentStore = (*Store)(nil)
	_ clipdoc.FolderCreator = (*Store)(nil)
)

// Store implements clipdoc.DocumentStore with the Docs and Drive APIs.
type Store struct {
	docs  *docs.Service
	drive *drive.Service
}

// NewStore creates the Docs and Drive services from opts.
func NewStore(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	d, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "cannot create docs service")
	}
	dr, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "cannot create drive service")
	}
	return &Store{docs: d, drive: dr}, nil
}

// DocumentURL returns the editor URL of a document.
func DocumentURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/edit"
}

// FindFolder returns the first non-trashed folder with the name.
func (s *Store) FindFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escape(name), FolderMimeType)
	list, err := s.drive.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return nil, wrap(err, "find folder %q", name)
	}
	if len(list.Files) == 0 {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "folder %q not found", name)
	}
	return &clipdoc.Folder{ID: list.Files[0].Id, Name: list.Files[0].Name}, nil
}

// CreateFolder creates a folder in the user's root.
func (s *Store) CreateFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	f, err := s.drive.Files.Create(&drive.File{Name: name, MimeType: FolderMimeType}).
		Fields("id, name").Context(ctx).Do()
	if err != nil {
		return nil, wrap(err, "create folder %q", name)
	}
	return &clipdoc.Folder{ID: f.Id, Name: f.Name}, nil
}

// ListDocuments walks the folder tree breadth first and returns every
// document in it.
func (s *Store) ListDocuments(ctx context.Context, folderID string) ([]*clipdoc.DocumentRecord, error) {
	var out []*clipdoc.DocumentRecord
	err := s.walk(ctx, folderID, func(f *drive.File) bool {
		out = append(out, record(f))
		return true
	})
	return out, err
}

// FindDocumentByTitle searches the folder tree for a document.
func (s *Store) FindDocumentByTitle(ctx context.Context, folderID, title string) (*clipdoc.DocumentRecord, error) {
	var found *clipdoc.DocumentRecord
	err := s.walk(ctx, folderID, func(f *drive.File) bool {
		if f.Name != title {
			return true
		}
		found = record(f)
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "document %q not found", title)
	}
	return found, nil
}

// walk calls fn for each document under folderID until fn returns false.
func (s *Store) walk(ctx context.Context, folderID string, fn func(*drive.File) bool) error {
	queue := []string{folderID}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		q := fmt.Sprintf("'%s' in parents and trashed = false", escape(parent))
		call := s.drive.Files.List().Q(q).
			Fields("nextPageToken, files(id, name, mimeType)").
			OrderBy("createdTime").
			PageSize(1000)
		stop := false
		err := call.Pages(ctx, func(list *drive.FileList) error {
			for _, f := range list.Files {
				switch f.MimeType {
				case FolderMimeType:
					queue = append(queue, f.Id)
				case DocumentMimeType:
					if !fn(f) {
						stop = true
						return errStop
					}
				}
			}
			return nil
		})
		if stop {
			return nil
		}
		if err != nil {
			return wrap(err, "list folder %s", parent)
		}
	}
	return nil
}

var errStop = errors.New("stop")

// CreateDocument creates a blank document in the user's root.
func (s *Store) CreateDocument(ctx context.Context, title string) (*clipdoc.DocumentRecord, error) {
	doc, err := s.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, wrap(err, "create document %q", title)
	}
	return &clipdoc.DocumentRecord{ID: doc.DocumentId, Title: doc.Title, URL: DocumentURL(doc.DocumentId)}, nil
}

// MoveDocument replaces the document's parents with folderID.
func (s *Store) MoveDocument(ctx context.Context, docID, folderID string) error {
	f, err := s.drive.Files.Get(docID).Fields("parents").Context(ctx).Do()
	if err != nil {
		return wrap(err, "get parents of %s", docID)
	}
	_, err = s.drive.Files.Update(docID, &drive.File{}).
		AddParents(folderID).
		RemoveParents(strings.Join(f.Parents, ",")).
		Fields("id, parents").
		Context(ctx).Do()
	if err != nil {
		return wrap(err, "move %s", docID)
	}
	return nil
}

// ApplyEdits clears the document body and applies edits in one batch
// update, so a retried write replaces a partial one.
func (s *Store) ApplyEdits(ctx context.Context, docID string, edits []clipdoc.Edit) error {
	doc, err := s.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return wrap(err, "get document %s", docID)
	}

	var reqs []*docs.Request
	if clear := clearRequest(endIndex(doc)); clear != nil {
		reqs = append(reqs, clear)
	}
	reqs = append(reqs, Requests(edits)...)
	if len(reqs) == 0 {
		return nil
	}

	_, err = s.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return wrap(err, "update document %s", docID)
	}
	return nil
}

func endIndex(doc *docs.Document) int64 {
	if doc.Body == nil || len(doc.Body.Content) == 0 {
		return 0
	}
	return doc.Body.Content[len(doc.Body.Content)-1].EndIndex
}

func record(f *drive.File) *clipdoc.DocumentRecord {
	return &clipdoc.DocumentRecord{ID: f.Id, Title: f.Name, URL: DocumentURL(f.Id)}
}

// escape quotes a value for a Drive query string literal.
func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// wrap maps API errors to error codes.
func wrap(err error, format string, args ...any) error {
	code := clipdoc.EINTERNAL
	var apiErr *googleapi.Error
	switch {
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
			code = clipdoc.EUNAUTHORIZED
		case apiErr.Code == http.StatusNotFound:
			code = clipdoc.ENOTFOUND
		case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
			code = clipdoc.ETRANSIENT
		case apiErr.Code == http.StatusBadRequest:
			code = clipdoc.EINVALID
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		code = clipdoc.ETRANSIENT
	}
	return clipdoc.Wrapf(err, code, format, args...)
}
