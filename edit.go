package clipdoc

import (
	"strings"
	"unicode/utf16"
)

// EditKind identifies the operation an Edit performs.
type EditKind int

// Edit kinds.
const (
	EditInsertText EditKind = iota
	EditParagraphStyle
	EditBullets
	EditTextStyle
)

func (k EditKind) String() string {
	switch k {
	case EditInsertText:
		return "insertText"
	case EditParagraphStyle:
		return "updateParagraphStyle"
	case EditBullets:
		return "createParagraphBullets"
	case EditTextStyle:
		return "updateTextStyle"
	default:
		return "unknown"
	}
}

// BulletPreset names a list marker style.
type BulletPreset string

// Bullet presets.
const (
	BulletNone      BulletPreset = ""
	BulletUnordered BulletPreset = "BULLET_DISC_CIRCLE_SQUARE"
	BulletOrdered   BulletPreset = "NUMBERED_DECIMAL_ALPHA_ROMAN"
)

// Range is an absolute [Start, End) span of document positions.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Edit is one position-addressed document operation.
type Edit struct {
	Kind EditKind

	// Index and Text apply to EditInsertText.
	Index int
	Text  string

	// Range applies to every other kind.
	Range Range

	HeadingLevel int          // EditParagraphStyle
	Bullet       BulletPreset // EditBullets
	Style        TextStyle    // EditTextStyle
}

// BuildEdits turns blocks into a batch of edits: one insert of the full
// text at DocumentStart, then paragraph styles and bullets, then inline
// text styles. Every range is computed from the block layout, so the batch
// must be applied in order against an empty document.
func BuildEdits(blocks []Block) []Edit {
	if len(blocks) == 0 {
		return nil
	}
	blocks = Layout(blocks, DocumentStart)

	edits := []Edit{{Kind: EditInsertText, Index: DocumentStart, Text: FullText(blocks)}}

	for _, b := range blocks {
		r := Range{Start: b.Start, End: b.End()}
		switch b.Kind {
		case BlockHeading:
			edits = append(edits, Edit{Kind: EditParagraphStyle, Range: r, HeadingLevel: b.Level})
		case BlockListItem:
			preset := BulletUnordered
			if b.List == ListOrdered {
				preset = BulletOrdered
			}
			edits = append(edits, Edit{Kind: EditBullets, Range: r, Bullet: preset})
		}
	}

	for _, b := range blocks {
		for _, s := range b.Spans {
			if s.Style.IsZero() || s.Start >= s.End {
				continue
			}
			edits = append(edits, Edit{
				Kind:  EditTextStyle,
				Range: Range{Start: b.Start + s.Start, End: b.Start + s.End},
				Style: s.Style,
			})
		}
	}
	return edits
}

// Paragraph is a newline-terminated run of document text with its
// paragraph-level attributes.
type Paragraph struct {
	Range        Range        `json:"range"`
	Text         string       `json:"text"`
	HeadingLevel int          `json:"heading,omitempty"`
	Bullet       BulletPreset `json:"bullet,omitempty"`
}

// StyledRange records a text style applied over a range.
type StyledRange struct {
	Range Range     `json:"range"`
	Style TextStyle `json:"style"`
}

// Content is the state of a document after replaying edits.
type Content struct {
	Text       string
	Paragraphs []Paragraph
	Styles     []StyledRange
}

// Run is a maximal stretch of text sharing one merged style.
type Run struct {
	Range Range
	Text  string
	Style TextStyle
}

// Replay applies edits in order to an empty document and returns the
// resulting content. Positions start at DocumentStart.
func Replay(edits []Edit) (*Content, error) {
	var buf []uint16
	type pstyle struct {
		r       Range
		heading int
		bullet  BulletPreset
	}
	var pstyles []pstyle
	var styles []StyledRange

	inBounds := func(r Range) bool {
		return r.Start >= DocumentStart && r.Start < r.End && r.End <= DocumentStart+len(buf)
	}

	for i, e := range edits {
		switch e.Kind {
		case EditInsertText:
			off := e.Index - DocumentStart
			if off < 0 || off > len(buf) {
				return nil, Errorf(EINVALID, "edit %d: insert index %d out of range", i, e.Index)
			}
			ins := utf16.Encode([]rune(e.Text))
			n := len(ins)
			buf = append(buf[:off], append(ins, buf[off:]...)...)
			// Earlier styling shifts with the inserted text.
			for j := range pstyles {
				pstyles[j].r = shift(pstyles[j].r, e.Index, n)
			}
			for j := range styles {
				styles[j].Range = shift(styles[j].Range, e.Index, n)
			}
		case EditParagraphStyle, EditBullets:
			if !inBounds(e.Range) {
				return nil, Errorf(EINVALID, "edit %d: range [%d,%d) out of bounds", i, e.Range.Start, e.Range.End)
			}
			pstyles = append(pstyles, pstyle{r: e.Range, heading: e.HeadingLevel, bullet: e.Bullet})
		case EditTextStyle:
			if !inBounds(e.Range) {
				return nil, Errorf(EINVALID, "edit %d: range [%d,%d) out of bounds", i, e.Range.Start, e.Range.End)
			}
			styles = append(styles, StyledRange{Range: e.Range, Style: e.Style})
		default:
			return nil, Errorf(EINVALID, "edit %d: unknown kind %d", i, e.Kind)
		}
	}

	c := &Content{Text: string(utf16.Decode(buf)), Styles: styles}
	pos := DocumentStart
	for _, line := range strings.SplitAfter(c.Text, "\n") {
		if line == "" {
			continue
		}
		p := Paragraph{Range: Range{Start: pos, End: pos + TextLen(line)}, Text: line}
		for _, ps := range pstyles {
			if ps.r.Start < p.Range.End && p.Range.Start < ps.r.End {
				if ps.heading > 0 {
					p.HeadingLevel = ps.heading
				}
				if ps.bullet != BulletNone {
					p.Bullet = ps.bullet
				}
			}
		}
		c.Paragraphs = append(c.Paragraphs, p)
		pos = p.Range.End
	}
	return c, nil
}

func shift(r Range, at, n int) Range {
	if r.Start >= at {
		r.Start += n
	}
	if r.End > at {
		r.End += n
	}
	return r
}

// StyleAt returns the merged style of every styled range covering pos.
func (c *Content) StyleAt(pos int) TextStyle {
	var s TextStyle
	for _, sr := range c.Styles {
		if sr.Range.Start <= pos && pos < sr.Range.End {
			s = s.Merge(sr.Style)
		}
	}
	return s
}

// Runs splits a paragraph into runs of uniform style. The trailing
// newline is excluded.
func (c *Content) Runs(p Paragraph) []Run {
	units := utf16.Encode([]rune(strings.TrimSuffix(p.Text, "\n")))
	var runs []Run
	start := 0
	for i := 1; i <= len(units); i++ {
		if i < len(units) && c.StyleAt(p.Range.Start+i) == c.StyleAt(p.Range.Start+start) {
			continue
		}
		runs = append(runs, Run{
			Range: Range{Start: p.Range.Start + start, End: p.Range.Start + i},
			Text:  string(utf16.Decode(units[start:i])),
			Style: c.StyleAt(p.Range.Start + start),
		})
		start = i
	}
	return runs
}
