// Package goquery implements HTML extraction and cleaning with goquery
// selectors.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/clipdoc"
	"golang.org/x/net/html"
)

// Ensure MultiContainerExtractor implements clipdoc.Extractor.
var _ clipdoc.Extractor = (*MultiContainerExtractor)(nil)

// MultiContainerName identifies the multi-container algorithm in strategy tags.
const MultiContainerName = "multi-container"

// ContainerPattern selects article-body containers. When Parents is set the
// parents of the matched elements are used instead.
type ContainerPattern struct {
	Selector string
	Parents  bool
}

// DefaultContainerPatterns are the container patterns tried in order.
var DefaultContainerPatterns = []ContainerPattern{
	{Selector: `div[class*="post-content"]`},
	{Selector: `div[class*="article-content"]`},
	{Selector: `div[class*="article-body"]`},
	{Selector: `div[class*="entry-content"]`},
	{Selector: `article p`, Parents: true},
}

// MultiContainerExtractor recovers articles that sites split across
// several sibling containers. For each pattern that matches more than one
// element it concatenates every match; the pattern yielding the most text
// wins.
type MultiContainerExtractor struct {
	patterns []ContainerPattern
}

// NewMultiContainerExtractor creates an extractor using patterns, or
// DefaultContainerPatterns when none are given.
func NewMultiContainerExtractor(patterns ...ContainerPattern) *MultiContainerExtractor {
	if len(patterns) == 0 {
		patterns = DefaultContainerPatterns
	}
	return &MultiContainerExtractor{patterns: patterns}
}

// Name returns the algorithm name.
func (e *MultiContainerExtractor) Name() string {
	return MultiContainerName
}

// Extract returns the combined containers of the best pattern. A page
// where no pattern matches more than once yields empty content.
func (e *MultiContainerExtractor) Extract(src string) (*clipdoc.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, clipdoc.Errorf(clipdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &clipdoc.ExtractResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	bestLen := 0
	for _, p := range e.patterns {
		sel := doc.Find(p.Selector)
		if p.Parents {
			sel = sel.Parent()
		}
		nodes := outermost(sel.Nodes)
		if len(nodes) < 2 {
			continue
		}

		parts := make([]string, 0, len(nodes))
		textLen := 0
		for _, n := range nodes {
			s := goquery.NewDocumentFromNode(n).Selection
			h, err := goquery.OuterHtml(s)
			if err != nil {
				continue
			}
			parts = append(parts, h)
			textLen += utf8.RuneCountInString(strings.TrimSpace(s.Text()))
		}
		if textLen > bestLen {
			bestLen = textLen
			result.ContentHTML = strings.Join(parts, "\n")
		}
	}
	return result, nil
}

// outermost drops nodes nested inside another node of the set, so text is
// never counted twice.
func outermost(nodes []*html.Node) []*html.Node {
	set := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	var out []*html.Node
	for _, n := range nodes {
		nested := false
		for p := n.Parent; p != nil; p = p.Parent {
			if set[p] {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, n)
		}
	}
	return out
}
