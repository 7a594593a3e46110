package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/clipdoc"
)

// DocCache maps titles to documents in one folder. It is loaded once from
// the store and then kept current by the run itself, so concurrent tasks
// with the same title end up on the same document.
type DocCache struct {
	store    clipdoc.DocumentStore
	folderID string

	mu      sync.Mutex
	byTitle map[string]*entry
}

// entry is a known document. moved is false while a document created in
// this run has not reached the folder yet.
type entry struct {
	rec   *clipdoc.DocumentRecord
	moved bool
}

// NewDocCache lists every document under folderID, including nested
// folders. When several documents share a title the first one listed wins.
func NewDocCache(ctx context.Context, store clipdoc.DocumentStore, folderID string) (*DocCache, error) {
	docs, err := store.ListDocuments(ctx, folderID)
	if err != nil {
		return nil, err
	}
	c := &DocCache{
		store:    store,
		folderID: folderID,
		byTitle:  make(map[string]*entry, len(docs)),
	}
	for _, d := range docs {
		if _, ok := c.byTitle[d.Title]; !ok {
			c.byTitle[d.Title] = &entry{rec: d, moved: true}
		}
	}
	return c, nil
}

// Resolve returns the document for title and whether edits should be
// applied to it. A document that existed before the run is reused as is.
// One created earlier in this run is reused and rewritten, since its
// content may be incomplete. Otherwise a blank document is created and
// recorded at once, then moved into the folder. A failed move is retried
// by the next Resolve of the same title.
//
// Lookup, creation and insertion happen under one lock, so a title is
// never created twice.
func (c *DocCache) Resolve(ctx context.Context, title string) (*clipdoc.DocumentRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byTitle[title]
	if !ok {
		rec, err := c.store.CreateDocument(ctx, title)
		if err != nil {
			return nil, false, err
		}
		rec.CreatedInRun = true
		e = &entry{rec: rec}
		c.byTitle[title] = e
	}
	if !e.moved {
		if err := c.store.MoveDocument(ctx, e.rec.ID, c.folderID); err != nil {
			return nil, false, err
		}
		e.moved = true
	}
	return e.rec, e.rec.CreatedInRun, nil
}

// Len returns the number of known titles.
func (c *DocCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byTitle)
}
