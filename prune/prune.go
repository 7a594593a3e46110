package prune

import (
	"bytes"
	"strings"

	"github.com/fwojciec/clipdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Pruner implements clipdoc.Pruner.
var _ clipdoc.Pruner = (*Pruner)(nil)

var unwantedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Template: true,
}

// Pruner removes low-scoring subtrees from HTML documents.
type Pruner struct {
	scorer *Scorer
}

// NewPruner creates a Pruner.
func NewPruner(cfg Config) *Pruner {
	return &Pruner{scorer: NewScorer(cfg)}
}

// Prune parses src, drops comments and script-like elements, removes every
// body subtree the scorer rejects and returns the serialized document.
func (p *Pruner) Prune(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", clipdoc.Errorf(clipdoc.EINVALID, "parse HTML: %v", err)
	}
	stripUnwanted(doc)

	body := findBody(doc)
	if body == nil {
		return src, nil
	}
	p.prune(body)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// prune decides each element child of n before descending into it, so a
// node is always scored with its own subtree intact.
func (p *Pruner) prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			if p.scorer.Keep(Node{n: c}) {
				p.prune(c)
			} else {
				n.RemoveChild(c)
			}
		}
		c = next
	}
}

func stripUnwanted(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && unwantedTags[c.DataAtom]:
			n.RemoveChild(c)
		default:
			stripUnwanted(c)
		}
		c = next
	}
}
