package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/clipdoc"
)

// MainContentSelectors are tried in order when locating the main content
// area of a page.
var MainContentSelectors = []string{
	"article.post-content",
	"article.article-content",
	"article.entry-content",
	"article",
	"main article",
	`[role="main"] article`,
	`[role="main"]`,
	"main",
	".article-content",
	".post-content",
	".entry-content",
	".content-body",
	".article-body",
	".story-body",
	".post-body",
	"#article-body",
	"#content",
	".content",
}

// MinMainContentLength is the text length a candidate needs to count as
// the main content.
const MinMainContentLength = 200

// MainContent returns the outer HTML of the first selector match with
// more than MinMainContentLength characters of text. The second result is
// false when no candidate qualifies.
func MainContent(src string) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", false, clipdoc.Errorf(clipdoc.EINVALID, "failed to parse HTML: %v", err)
	}
	for _, sel := range MainContentSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(s.Text())) <= MinMainContentLength {
			continue
		}
		h, err := goquery.OuterHtml(s)
		if err != nil {
			return "", false, err
		}
		return h, true, nil
	}
	return "", false, nil
}
