package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/clipdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ clipdoc.DocumentStore = (*Store)(nil)
	_ clipdoc.FolderCreator = (*Store)(nil)
)

// Store implements clipdoc.DocumentStore using SQLite.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Document is a stored document with its content.
type Document struct {
	clipdoc.DocumentRecord
	FolderID    string
	Content     *clipdoc.Content
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// formatting is the JSON stored alongside a document body.
type formatting struct {
	Paragraphs []clipdoc.Paragraph   `json:"paragraphs,omitempty"`
	Styles     []clipdoc.StyledRange `json:"styles,omitempty"`
}

func (s *Store) url(id string) string {
	return "sqlite://" + s.db.Path() + "#" + id
}

// FindFolder returns the oldest folder with the given name.
func (s *Store) FindFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	var f clipdoc.Folder
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name FROM folders
		WHERE name = ?
		ORDER BY created_at, rowid
		LIMIT 1
	`, name).Scan(&f.ID, &f.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "folder %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFolder creates a top-level folder.
func (s *Store) CreateFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	return s.CreateSubfolder(ctx, name, "")
}

// CreateSubfolder creates a folder under parentID. An empty parentID
// creates a top-level folder.
func (s *Store) CreateSubfolder(ctx context.Context, name, parentID string) (*clipdoc.Folder, error) {
	if name == "" {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "folder name required")
	}
	var parent any
	if parentID != "" {
		parent = parentID
	}
	f := &clipdoc.Folder{ID: uuid.New().String(), Name: name}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, parent_id, created_at)
		VALUES (?, ?, ?, ?)
	`, f.ID, f.Name, parent, now()); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return f, nil
}

// ListDocuments returns every document under the folder and its
// subfolders, oldest first.
func (s *Store) ListDocuments(ctx context.Context, folderID string) ([]*clipdoc.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, treeCTE+`
		SELECT d.id, d.title FROM documents d
		JOIN tree ON d.folder_id = tree.id
		ORDER BY d.created_at, d.rowid
	`, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*clipdoc.DocumentRecord
	for rows.Next() {
		rec := &clipdoc.DocumentRecord{}
		if err := rows.Scan(&rec.ID, &rec.Title); err != nil {
			return nil, err
		}
		rec.URL = s.url(rec.ID)
		docs = append(docs, rec)
	}
	return docs, rows.Err()
}

// FindDocumentByTitle returns the oldest document with the title under
// the folder and its subfolders.
func (s *Store) FindDocumentByTitle(ctx context.Context, folderID, title string) (*clipdoc.DocumentRecord, error) {
	rec := &clipdoc.DocumentRecord{}
	err := s.db.QueryRowContext(ctx, treeCTE+`
		SELECT d.id, d.title FROM documents d
		JOIN tree ON d.folder_id = tree.id
		WHERE d.title = ?
		ORDER BY d.created_at, d.rowid
		LIMIT 1
	`, folderID, title).Scan(&rec.ID, &rec.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "document %q not found", title)
	}
	if err != nil {
		return nil, err
	}
	rec.URL = s.url(rec.ID)
	return rec, nil
}

// CreateDocument creates an unfiled blank document.
func (s *Store) CreateDocument(ctx context.Context, title string) (*clipdoc.DocumentRecord, error) {
	if title == "" {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "document title required")
	}
	id := uuid.New().String()
	ts := now()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, title, hashContent(""), ts, ts); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &clipdoc.DocumentRecord{ID: id, Title: title, URL: s.url(id)}, nil
}

// MoveDocument files a document under folderID.
func (s *Store) MoveDocument(ctx context.Context, docID, folderID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM folders WHERE id = ?", folderID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return clipdoc.Errorf(clipdoc.ENOTFOUND, "folder not found")
	}
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET folder_id = ?, updated_at = ? WHERE id = ?
	`, folderID, now(), docID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ApplyEdits replays edits and replaces the document's body and
// formatting with the result.
func (s *Store) ApplyEdits(ctx context.Context, docID string, edits []clipdoc.Edit) error {
	content, err := clipdoc.Replay(edits)
	if err != nil {
		return err
	}
	format, err := json.Marshal(formatting{Paragraphs: content.Paragraphs, Styles: content.Styles})
	if err != nil {
		return fmt.Errorf("failed to encode formatting: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET body = ?, formatting = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, content.Text, string(format), hashContent(content.Text, string(format)), now(), docID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// FindDocumentByID returns a document with its content.
func (s *Store) FindDocumentByID(ctx context.Context, id string) (*Document, error) {
	var (
		doc                  Document
		folderID             sql.NullString
		format               string
		createdAt, updatedAt string
	)
	doc.Content = &clipdoc.Content{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, folder_id, title, body, formatting, content_hash, created_at, updated_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &folderID, &doc.Title, &doc.Content.Text, &format, &doc.ContentHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	var f formatting
	if err := json.Unmarshal([]byte(format), &f); err != nil {
		return nil, fmt.Errorf("failed to decode formatting: %w", err)
	}
	doc.Content.Paragraphs = f.Paragraphs
	doc.Content.Styles = f.Styles
	doc.FolderID = folderID.String
	doc.URL = s.url(doc.ID)

	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return clipdoc.Errorf(clipdoc.ENOTFOUND, "document not found")
	}
	return nil
}
