// Package fs provides a document store on the local filesystem. Folders
// are directories and documents are markdown files with YAML frontmatter.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/clipdoc"
	"github.com/google/uuid"
)

// Ensure Store implements the store interfaces at compile time.
var (
	_ clipdoc.DocumentStore = (*Store)(nil)
	_ clipdoc.FolderCreator = (*Store)(nil)
)

// Store keeps documents under a root directory. Folder IDs are slash
// separated paths relative to the root.
type Store struct {
	root string

	mu    sync.Mutex
	paths map[string]string // document ID to file path
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "invalid store directory %q", dir)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, clipdoc.Wrapf(err, clipdoc.EPRECONDITION, "cannot create store directory %q", dir)
	}
	return &Store{root: root, paths: make(map[string]string)}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) url(id string) string {
	return "file://" + filepath.ToSlash(s.root) + "#" + id
}

func (s *Store) dir(folderID string) (string, error) {
	if folderID == "" || folderID == "." {
		return s.root, nil
	}
	if !filepath.IsLocal(filepath.FromSlash(folderID)) {
		return "", clipdoc.Errorf(clipdoc.EINVALID, "folder %q is outside the store", folderID)
	}
	return filepath.Join(s.root, filepath.FromSlash(folderID)), nil
}

func (s *Store) folderID(dir string) string {
	rel, err := filepath.Rel(s.root, dir)
	if err != nil {
		return dir
	}
	return filepath.ToSlash(rel)
}

// FindFolder returns the first directory named name in walk order. A
// name containing a slash is looked up as a path.
func (s *Store) FindFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	if strings.Contains(name, "/") {
		dir, err := s.dir(name)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return &clipdoc.Folder{ID: s.folderID(dir), Name: name}, nil
		}
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "folder %q not found", name)
	}

	var found string
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == s.root {
			return nil
		}
		if hidden(d.Name()) {
			return filepath.SkipDir
		}
		if d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == "" {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "folder %q not found", name)
	}
	return &clipdoc.Folder{ID: s.folderID(found), Name: name}, nil
}

// CreateFolder creates a directory under the root.
func (s *Store) CreateFolder(ctx context.Context, name string) (*clipdoc.Folder, error) {
	if name == "" {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "folder name required")
	}
	dir, err := s.dir(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return &clipdoc.Folder{ID: s.folderID(dir), Name: filepath.Base(dir)}, nil
}

// ListDocuments returns every document under the folder and its
// subfolders in walk order. Markdown files without frontmatter are skipped.
func (s *Store) ListDocuments(ctx context.Context, folderID string) ([]*clipdoc.DocumentRecord, error) {
	dir, err := s.dir(folderID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []*clipdoc.DocumentRecord
	err = s.walk(dir, func(path string, fm Frontmatter) bool {
		docs = append(docs, &clipdoc.DocumentRecord{ID: fm.ID, Title: fm.Title, URL: s.url(fm.ID)})
		return true
	})
	return docs, err
}

// FindDocumentByTitle returns the first document with the title under the
// folder and its subfolders.
func (s *Store) FindDocumentByTitle(ctx context.Context, folderID, title string) (*clipdoc.DocumentRecord, error) {
	dir, err := s.dir(folderID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rec *clipdoc.DocumentRecord
	err = s.walk(dir, func(path string, fm Frontmatter) bool {
		if fm.Title != title {
			return true
		}
		rec = &clipdoc.DocumentRecord{ID: fm.ID, Title: fm.Title, URL: s.url(fm.ID)}
		return false
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, clipdoc.Errorf(clipdoc.ENOTFOUND, "document %q not found", title)
	}
	return rec, nil
}

// CreateDocument writes a blank document file in the root directory.
func (s *Store) CreateDocument(ctx context.Context, title string) (*clipdoc.DocumentRecord, error) {
	if strings.TrimSpace(title) == "" {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "document title required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fm := Frontmatter{ID: uuid.New().String(), Title: title, Updated: time.Now().UTC(), Hash: hashBody("")}
	path := uniquePath(s.root, fileName(title))
	if err := writeDocument(path, fm, ""); err != nil {
		return nil, err
	}
	s.paths[fm.ID] = path
	return &clipdoc.DocumentRecord{ID: fm.ID, Title: title, URL: s.url(fm.ID)}, nil
}

// MoveDocument moves a document file into the folder's directory.
func (s *Store) MoveDocument(ctx context.Context, docID, folderID string) error {
	dir, err := s.dir(folderID)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return clipdoc.Errorf(clipdoc.ENOTFOUND, "folder %q not found", folderID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.locate(docID)
	if err != nil {
		return err
	}
	if filepath.Dir(path) == dir {
		return nil
	}
	dest := uniquePath(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("failed to move document: %w", err)
	}
	s.paths[docID] = dest
	return nil
}

// ApplyEdits replays edits and replaces the document body with the
// rendered result. An unchanged body leaves the file untouched.
func (s *Store) ApplyEdits(ctx context.Context, docID string, edits []clipdoc.Edit) error {
	content, err := clipdoc.Replay(edits)
	if err != nil {
		return err
	}
	body := Render(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.locate(docID)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fm, _, err := ParseDocument(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	hash := hashBody(body)
	if fm.Hash == hash {
		return nil
	}
	fm.Hash = hash
	fm.Updated = time.Now().UTC()
	return writeDocument(path, fm, body)
}

// ReadDocument returns the frontmatter and body of a document.
func (s *Store) ReadDocument(ctx context.Context, docID string) (Frontmatter, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.locate(docID)
	if err != nil {
		return Frontmatter{}, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Frontmatter{}, "", err
	}
	return ParseDocument(data)
}

// locate returns the file path of a document, scanning the whole store
// when the document has not been seen yet. Callers hold s.mu.
func (s *Store) locate(docID string) (string, error) {
	if path, ok := s.paths[docID]; ok {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		delete(s.paths, docID)
	}
	var found string
	err := s.walk(s.root, func(path string, fm Frontmatter) bool {
		if fm.ID != docID {
			return true
		}
		found = path
		return false
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", clipdoc.Errorf(clipdoc.ENOTFOUND, "document not found")
	}
	return found, nil
}

// walk calls fn for every document file under dir until fn returns false.
// Hidden entries and files without frontmatter are skipped. Every visited
// document is indexed. Callers hold s.mu.
func (s *Store) walk(dir string, fn func(path string, fm Frontmatter) bool) error {
	err := filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fm, _, err := ParseDocument(data)
		if err != nil || fm.ID == "" {
			return nil
		}
		s.paths[fm.ID] = path
		if !fn(path, fm) {
			return filepath.SkipAll
		}
		return nil
	})
	if errors.Is(err, iofs.ErrNotExist) {
		return clipdoc.Errorf(clipdoc.ENOTFOUND, "folder not found")
	}
	return err
}

// writeDocument writes through a temporary file and renames it into
// place, so readers never see a partial document.
func writeDocument(path string, fm Frontmatter, body string) error {
	content, err := FormatDocument(fm, body)
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// fileName derives a file name from a document title.
func fileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "untitled"
	}
	return name + ".md"
}

// uniquePath returns dir/name, adding a numeric suffix when taken.
func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		if _, err := os.Lstat(path); errors.Is(err, iofs.ErrNotExist) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
