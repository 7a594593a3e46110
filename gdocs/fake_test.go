package gdocs_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"unicode/utf16"

	"github.com/fwojciec/clipdoc/gdocs"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var (
	nameQuery   = regexp.MustCompile(`^name = '((?:[^'\\]|\\.)*)' and mimeType = '([^']*)' and trashed = false$`)
	parentQuery = regexp.MustCompile(`^'([^']*)' in parents and trashed = false$`)
)

type fakeFile struct {
	id       string
	name     string
	mimeType string
	parents  []string
}

// fakeGoogle serves the subset of the Docs and Drive APIs the store uses.
type fakeGoogle struct {
	mu      sync.Mutex
	next    int
	files   []*fakeFile
	ends    map[string]int64
	batches map[string][][]*docs.Request

	// status, when set, is returned for every request.
	status int
}

func newFakeGoogle() *fakeGoogle {
	return &fakeGoogle{ends: make(map[string]int64), batches: make(map[string][][]*docs.Request)}
}

// add inserts a file and returns its id.
func (g *fakeGoogle) add(name, mimeType, parent string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.insert(name, mimeType, parent)
}

func (g *fakeGoogle) insert(name, mimeType, parent string) string {
	g.next++
	id := fmt.Sprintf("id-%d", g.next)
	g.files = append(g.files, &fakeFile{id: id, name: name, mimeType: mimeType, parents: []string{parent}})
	if mimeType == gdocs.DocumentMimeType {
		g.ends[id] = 2
	}
	return id
}

// file looks up a file. Callers hold g.mu.
func (g *fakeGoogle) file(id string) *fakeFile {
	for _, f := range g.files {
		if f.id == id {
			return f
		}
	}
	return nil
}

func (g *fakeGoogle) store(t *testing.T) *gdocs.Store {
	t.Helper()
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)
	s, err := gdocs.NewStore(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s"}}`, code, http.StatusText(code))
}

func (g *fakeGoogle) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		var out []*drive.File
		for _, f := range g.files {
			if m := nameQuery.FindStringSubmatch(q); m != nil {
				name := strings.ReplaceAll(m[1], `\'`, `'`)
				if f.name == name && f.mimeType == m[2] {
					out = append(out, &drive.File{Id: f.id, Name: f.name})
				}
				continue
			}
			if m := parentQuery.FindStringSubmatch(q); m != nil {
				for _, p := range f.parents {
					if p == m[1] {
						out = append(out, &drive.File{Id: f.id, Name: f.name, MimeType: f.mimeType})
					}
				}
			}
		}
		writeJSON(w, &drive.FileList{Files: out})
	})

	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		var f drive.File
		_ = json.NewDecoder(r.Body).Decode(&f)
		id := g.insert(f.Name, f.MimeType, "root")
		writeJSON(w, &drive.File{Id: id, Name: f.Name})
	})

	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		f := g.file(r.PathValue("id"))
		if f == nil {
			writeError(w, http.StatusNotFound)
			return
		}
		writeJSON(w, &drive.File{Id: f.id, Parents: f.parents})
	})

	mux.HandleFunc("PATCH /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		f := g.file(r.PathValue("id"))
		if f == nil {
			writeError(w, http.StatusNotFound)
			return
		}
		remove := strings.Split(r.URL.Query().Get("removeParents"), ",")
		var parents []string
		for _, p := range f.parents {
			keep := true
			for _, rm := range remove {
				if p == rm {
					keep = false
				}
			}
			if keep {
				parents = append(parents, p)
			}
		}
		f.parents = append(parents, r.URL.Query().Get("addParents"))
		writeJSON(w, &drive.File{Id: f.id, Parents: f.parents})
	})

	mux.HandleFunc("POST /v1/documents", func(w http.ResponseWriter, r *http.Request) {
		var d docs.Document
		_ = json.NewDecoder(r.Body).Decode(&d)
		id := g.insert(d.Title, gdocs.DocumentMimeType, "root")
		writeJSON(w, &docs.Document{DocumentId: id, Title: d.Title})
	})

	mux.HandleFunc("GET /v1/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		end, ok := g.ends[r.PathValue("id")]
		if !ok {
			writeError(w, http.StatusNotFound)
			return
		}
		writeJSON(w, &docs.Document{
			DocumentId: r.PathValue("id"),
			Body:       &docs.Body{Content: []*docs.StructuralElement{{EndIndex: 1}, {StartIndex: 1, EndIndex: end}}},
		})
	})

	mux.HandleFunc("POST /v1/documents/{call}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := strings.CutSuffix(r.PathValue("call"), ":batchUpdate")
		if _, exists := g.ends[id]; !ok || !exists {
			writeError(w, http.StatusNotFound)
			return
		}
		var req docs.BatchUpdateDocumentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		g.batches[id] = append(g.batches[id], req.Requests)
		end := int64(2)
		for _, rq := range req.Requests {
			if rq.InsertText != nil {
				end += int64(len(utf16.Encode([]rune(rq.InsertText.Text))))
			}
		}
		g.ends[id] = end
		writeJSON(w, &docs.BatchUpdateDocumentResponse{DocumentId: id})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.status != 0 {
			writeError(w, g.status)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (g *fakeGoogle) parents(id string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if f := g.file(id); f != nil {
		return f.parents
	}
	return nil
}

func (g *fakeGoogle) lastBatch(id string) []*docs.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.batches[id]
	if len(b) == 0 {
		return nil
	}
	return b[len(b)-1]
}

func (g *fakeGoogle) fail(status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
}
