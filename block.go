package clipdoc

import "unicode/utf16"

// BlockKind is the structural kind of a Block.
type BlockKind int

// Block kinds.
const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
	BlockQuote
	BlockRule
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list-item"
	case BlockCode:
		return "code"
	case BlockQuote:
		return "quote"
	case BlockRule:
		return "rule"
	default:
		return "paragraph"
	}
}

// ListKind distinguishes ordered from unordered list items.
type ListKind int

// List kinds.
const (
	ListNone ListKind = iota
	ListUnordered
	ListOrdered
)

// TextStyle is a set of inline attributes.
type TextStyle struct {
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Code   bool   `json:"code,omitempty"`
	Link   string `json:"link,omitempty"`
}

// IsZero reports whether no attribute is set.
func (s TextStyle) IsZero() bool {
	return s == TextStyle{}
}

// Merge returns s with every attribute set in o also set.
func (s TextStyle) Merge(o TextStyle) TextStyle {
	s.Bold = s.Bold || o.Bold
	s.Italic = s.Italic || o.Italic
	s.Code = s.Code || o.Code
	if o.Link != "" {
		s.Link = o.Link
	}
	return s
}

// FormatSpan applies Style to [Start, End) of the owning block's text.
type FormatSpan struct {
	Start int
	End   int
	Style TextStyle
}

// Block is one unit of output content. Text always ends with a newline.
// Offsets (Start, span bounds) are measured in UTF-16 code units.
type Block struct {
	Kind  BlockKind
	Level int      // heading level 1-6
	List  ListKind // list items only
	Depth int      // list nesting depth, 0 for top level
	Text  string
	Spans []FormatSpan

	// Start is the absolute document offset of Text, set by Layout.
	Start int
}

// End returns the absolute offset just past the block's text.
func (b Block) End() int {
	return b.Start + TextLen(b.Text)
}

// DocumentStart is the first addressable position of a document.
const DocumentStart = 1

// TextLen returns the length of s in UTF-16 code units, the unit document
// offsets are measured in.
func TextLen(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// Layout assigns each block its absolute start offset. Blocks are laid out
// contiguously from start with no separators beyond their own text.
func Layout(blocks []Block, start int) []Block {
	out := make([]Block, len(blocks))
	pos := start
	for i, b := range blocks {
		b.Start = pos
		pos += TextLen(b.Text)
		out[i] = b
	}
	return out
}

// FullText concatenates the text of every block in order.
func FullText(blocks []Block) string {
	n := 0
	for _, b := range blocks {
		n += len(b.Text)
	}
	buf := make([]byte, 0, n)
	for _, b := range blocks {
		buf = append(buf, b.Text...)
	}
	return string(buf)
}
