package clipdoc

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata, if any.
	Title string

	// ContentHTML is the main content as HTML with boilerplate removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages.
type Extractor interface {
	// Name identifies the algorithm in strategy tags (e.g. "trafilatura").
	Name() string

	// Extract processes raw HTML and returns the main content.
	// An extractor that finds nothing returns an empty ContentHTML, not an error.
	Extract(html string) (*ExtractResult, error)
}

// Cleaner removes structural noise from HTML before scoring.
type Cleaner interface {
	Clean(html string) (string, error)
}

// Pruner removes low-scoring subtrees from HTML.
type Pruner interface {
	Prune(html string) (string, error)
}
