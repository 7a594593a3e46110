// Package markdown converts markdown into the ordered Block sequence that
// documents are built from, using goldmark as the parser.
package markdown

import (
	"strings"

	"github.com/fwojciec/clipdoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Ensure Parser implements clipdoc.BlockParser.
var _ clipdoc.BlockParser = (*Parser)(nil)

// RuleWidth is the number of filler characters in a thematic break.
const RuleWidth = 50

// QuoteIndent prefixes the text of quote blocks.
const QuoteIndent = "  "

var ruleText = strings.Repeat("─", RuleWidth) + "\n"

// Parser turns markdown into blocks.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with GitHub-flavored tables enabled.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
}

// Parse returns the blocks of markdown in document order. Start offsets
// are left at zero; use clipdoc.Layout to assign them.
func (p *Parser) Parse(markdown string) ([]clipdoc.Block, error) {
	src := []byte(markdown)
	doc := p.md.Parser().Parse(text.NewReader(src))

	w := &walker{src: src}
	w.blocks(doc, 0)
	return w.out, nil
}

type walker struct {
	src []byte
	out []clipdoc.Block
}

func (w *walker) emit(b clipdoc.Block) {
	w.out = append(w.out, b)
}

// blocks visits the block-level children of n.
func (w *walker) blocks(n ast.Node, depth int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c, depth)
	}
}

func (w *walker) block(n ast.Node, depth int) {
	switch n := n.(type) {
	case *ast.Heading:
		line := w.inline(n)
		if strings.TrimSpace(line.text) == "" {
			return
		}
		w.emit(line.block(clipdoc.BlockHeading, n.Level))
	case *ast.Paragraph, *ast.TextBlock:
		line := w.inline(n)
		if strings.TrimSpace(line.text) == "" {
			return
		}
		w.emit(line.block(clipdoc.BlockParagraph, 0))
	case *ast.List:
		kind := clipdoc.ListUnordered
		if n.IsOrdered() {
			kind = clipdoc.ListOrdered
		}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			w.listItem(item, kind, depth)
		}
	case *ast.FencedCodeBlock:
		w.code(n.Lines())
	case *ast.CodeBlock:
		w.code(n.Lines())
	case *ast.Blockquote:
		w.quote(n)
	case *ast.ThematicBreak:
		w.emit(clipdoc.Block{Kind: clipdoc.BlockRule, Text: ruleText})
	case *east.Table:
		w.table(n)
	case *ast.HTMLBlock:
		// Raw HTML is not content.
	default:
		w.blocks(n, depth)
	}
}

// listItem flattens one item. Leading text becomes the item block; nested
// lists follow at depth+1.
func (w *walker) listItem(item ast.Node, kind clipdoc.ListKind, depth int) {
	var pending *line
	flush := func() {
		if pending != nil && strings.TrimSpace(pending.text) != "" {
			b := pending.block(clipdoc.BlockListItem, 0)
			b.List = kind
			b.Depth = depth
			w.emit(b)
		}
		pending = nil
	}
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			l := w.inline(c)
			if pending == nil {
				pending = &l
			} else {
				pending.join(l, " ")
			}
		case *ast.List:
			flush()
			w.block(c, depth+1)
		default:
			flush()
			w.block(c, depth)
		}
	}
	flush()
}

func (w *walker) code(lines *text.Segments) {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.src))
	}
	code := strings.TrimRight(sb.String(), "\n")
	if strings.TrimSpace(code) == "" {
		return
	}
	w.emit(clipdoc.Block{
		Kind: clipdoc.BlockCode,
		Text: code + "\n",
		Spans: []clipdoc.FormatSpan{
			{Start: 0, End: clipdoc.TextLen(code), Style: clipdoc.TextStyle{Code: true}},
		},
	})
}

// quote joins the paragraphs of a block quote, at any depth, into one
// indented block.
func (w *walker) quote(n *ast.Blockquote) {
	var q line
	first := true
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			l := w.inline(c)
			if first {
				q = l
				first = false
			} else {
				q.join(l, " ")
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if strings.TrimSpace(q.text) == "" {
		return
	}
	q.prefix(QuoteIndent)
	w.emit(q.block(clipdoc.BlockQuote, 0))
}

// table emits one paragraph per row with cells separated by " | ".
// Header cells are bold.
func (w *walker) table(n *east.Table) {
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		_, header := row.(*east.TableHeader)
		var l line
		for i, cell := 0, row.FirstChild(); cell != nil; i, cell = i+1, cell.NextSibling() {
			if i > 0 {
				l.add(" | ", clipdoc.TextStyle{})
			}
			c := w.inline(cell)
			if header {
				c.embolden()
			}
			l.join(c, "")
		}
		if strings.TrimSpace(l.text) == "" {
			continue
		}
		w.emit(l.block(clipdoc.BlockParagraph, 0))
	}
}

// inline renders the inline children of n into text and spans.
func (w *walker) inline(n ast.Node) line {
	var l line
	var st inlineState
	w.inlines(n, &l, &st)
	l.trim()
	return l
}

// inlineState tracks open/close toggles while walking inline content.
type inlineState struct {
	bold   int
	italic int
	link   []string
}

func (s *inlineState) style() clipdoc.TextStyle {
	st := clipdoc.TextStyle{Bold: s.bold > 0, Italic: s.italic > 0}
	if len(s.link) > 0 {
		st.Link = s.link[len(s.link)-1]
	}
	return st
}

func (w *walker) inlines(n ast.Node, l *line, st *inlineState) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			l.add(w.textValue(c.Segment.Value(w.src)), st.style())
			if c.SoftLineBreak() || c.HardLineBreak() {
				l.add(" ", st.style())
			}
		case *ast.String:
			l.add(w.textValue(c.Value), st.style())
		case *ast.Emphasis:
			if c.Level >= 2 {
				st.bold++
				w.inlines(c, l, st)
				st.bold--
			} else {
				st.italic++
				w.inlines(c, l, st)
				st.italic--
			}
		case *ast.Link:
			st.link = append(st.link, string(c.Destination))
			w.inlines(c, l, st)
			st.link = st.link[:len(st.link)-1]
		case *ast.AutoLink:
			s := st.style()
			s.Link = string(c.URL(w.src))
			l.add(string(c.Label(w.src)), s)
		case *ast.CodeSpan:
			s := st.style()
			s.Code = true
			l.add(w.codeSpanValue(c), s)
		case *ast.Image, *ast.RawHTML:
			// Images and inline HTML carry no text.
		default:
			w.inlines(c, l, st)
		}
	}
}

func (w *walker) textValue(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

func (w *walker) codeSpanValue(n *ast.CodeSpan) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			v := string(t.Segment.Value(w.src))
			sb.WriteString(strings.ReplaceAll(v, "\n", " "))
		}
	}
	return sb.String()
}
