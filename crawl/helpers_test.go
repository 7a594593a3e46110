package crawl_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/clipdoc"
	"github.com/fwojciec/clipdoc/mock"
)

// mapExtractor returns a mock extractor whose content for a page is looked
// up in contents. Titles are "T-<page>".
func mapExtractor(name string, contents map[string]string) *mock.Extractor {
	return &mock.Extractor{
		NameFn: func() string { return name },
		ExtractFn: func(html string) (*clipdoc.ExtractResult, error) {
			return &clipdoc.ExtractResult{Title: "T-" + html, ContentHTML: contents[html]}, nil
		},
	}
}

// identityConverter treats content HTML as markdown.
func identityConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) { return html, nil },
	}
}

// staticFetcher always returns page.
func staticFetcher(page string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(context.Context, string) (string, error) { return page, nil },
	}
}

// memStore is an in-memory document store built on mock.DocumentStore.
type memStore struct {
	mock.DocumentStore

	mu      sync.Mutex
	nextID  int
	docs    map[string]*clipdoc.DocumentRecord
	parents map[string]string
	content map[string]*clipdoc.Content
	creates int
	applies int
}

func newMemStore(existing ...*clipdoc.DocumentRecord) *memStore {
	s := &memStore{
		docs:    make(map[string]*clipdoc.DocumentRecord),
		parents: make(map[string]string),
		content: make(map[string]*clipdoc.Content),
	}
	for _, d := range existing {
		s.docs[d.ID] = d
		s.parents[d.ID] = "folder"
	}
	s.ListDocumentsFn = func(_ context.Context, folderID string) ([]*clipdoc.DocumentRecord, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var out []*clipdoc.DocumentRecord
		for _, d := range existing {
			if s.parents[d.ID] == folderID {
				out = append(out, &clipdoc.DocumentRecord{ID: d.ID, Title: d.Title, URL: d.URL})
			}
		}
		return out, nil
	}
	s.CreateDocumentFn = func(_ context.Context, title string) (*clipdoc.DocumentRecord, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nextID++
		s.creates++
		id := fmt.Sprintf("doc-%d", s.nextID)
		rec := &clipdoc.DocumentRecord{ID: id, Title: title, URL: "mem://" + id}
		s.docs[id] = rec
		return rec, nil
	}
	s.MoveDocumentFn = func(_ context.Context, docID, folderID string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.parents[docID] = folderID
		return nil
	}
	s.ApplyEditsFn = func(_ context.Context, docID string, edits []clipdoc.Edit) error {
		c, err := clipdoc.Replay(edits)
		if err != nil {
			return err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.applies++
		s.content[docID] = c
		return nil
	}
	return s
}

func (s *memStore) stats() (creates, applies int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates, s.applies
}

func (s *memStore) text(docID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.content[docID]; ok {
		return c.Text
	}
	return ""
}

func (s *memStore) contentOf(docID string) *clipdoc.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content[docID]
}
