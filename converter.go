package clipdoc

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// BlockParser parses markdown into the ordered Block sequence that
// documents are built from.
type BlockParser interface {
	Parse(markdown string) ([]Block, error)
}
