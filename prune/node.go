// Package prune classifies HTML subtrees as content or noise and removes
// the noise. Scoring is a pure function of a subtree; pruning walks the
// tree top-down and only ever removes whole subtrees.
package prune

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is an element in the tree being scored.
type Node struct {
	n *html.Node
}

// NewNode wraps an element node.
func NewNode(n *html.Node) Node {
	return Node{n: n}
}

// ParseNode parses an HTML fragment and returns its first element.
func ParseNode(fragment string) (Node, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return Node{}, clipdoc.Errorf(clipdoc.EINVALID, "parse HTML: %v", err)
	}
	body := findBody(doc)
	if body == nil {
		return Node{}, clipdoc.Errorf(clipdoc.EINVALID, "no body element")
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return Node{n: c}, nil
		}
	}
	return Node{}, clipdoc.Errorf(clipdoc.EINVALID, "no element in fragment")
}

// HTML returns the underlying node.
func (n Node) HTML() *html.Node { return n.n }

// Tag returns the lower-case tag name.
func (n Node) Tag() string { return strings.ToLower(n.n.Data) }

// ClassID returns the class list and id joined by spaces.
func (n Node) ClassID() string {
	var class, id string
	for _, a := range n.n.Attr {
		switch a.Key {
		case "class":
			class = a.Val
		case "id":
			id = a.Val
		}
	}
	return strings.Join(strings.Fields(class), " ") + " " + id
}

// Children returns the element children.
func (n Node) Children() []Node {
	var out []Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Node{n: c})
		}
	}
	return out
}

// Text returns the visible text: every text node trimmed and concatenated.
func (n Node) Text() string {
	var sb strings.Builder
	walkText(n.n, func(s string) { sb.WriteString(s) })
	return sb.String()
}

// TextLen is the number of characters in Text.
func (n Node) TextLen() int {
	return utf8.RuneCountInString(n.Text())
}

// Words counts whitespace-separated words across all text nodes.
func (n Node) Words() int {
	count := 0
	walkText(n.n, func(s string) { count += len(strings.Fields(s)) })
	return count
}

// MarkupLen is the number of characters in the serialized subtree.
func (n Node) MarkupLen() int {
	var buf bytes.Buffer
	if err := html.Render(&buf, n.n); err != nil {
		return n.TextLen()
	}
	return utf8.RuneCount(buf.Bytes())
}

// LinkTextLen is the number of text characters inside anchors.
func (n Node) LinkTextLen() int {
	total := 0
	for _, a := range n.Find(atom.A) {
		total += a.TextLen()
	}
	return total
}

// Find returns descendants (not n itself) with any of the given tags, in
// document order. Nested matches are included.
func (n Node) Find(tags ...atom.Atom) []Node {
	var out []Node
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			for _, t := range tags {
				if c.DataAtom == t {
					out = append(out, Node{n: c})
					break
				}
			}
			walk(c)
		}
	}
	walk(n.n)
	return out
}

func walkText(h *html.Node, fn func(string)) {
	if h.Type == html.TextNode {
		if s := strings.TrimSpace(h.Data); s != "" {
			fn(s)
		}
		return
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}

func findBody(h *html.Node) *html.Node {
	if h.Type == html.ElementNode && h.DataAtom == atom.Body {
		return h
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
