package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/clipdoc"
	"golang.org/x/net/html"
)

// Ensure Cleaner implements clipdoc.Cleaner.
var _ clipdoc.Cleaner = (*Cleaner)(nil)

// DefaultNoiseSelectors match navigation, ads, social widgets, comments,
// popups and similar page furniture.
var DefaultNoiseSelectors = []string{
	// semantic
	"nav", "header", "footer", "aside",

	// ARIA roles
	`[role="navigation"]`, `[role="banner"]`, `[role="contentinfo"]`,
	`[role="complementary"]`, `[role="menu"]`, `[role="menubar"]`,
	`[role="search"]`,

	// layout
	".sidebar", ".menu", ".nav", ".navbar", ".header", ".footer",
	".navigation", ".site-header", ".site-footer", ".site-nav",

	// ads
	".advertisement", ".ad", ".ads", ".advert", ".sponsored",
	".banner", ".promo", ".promotion",
	`[class*="ad-"]`, `[class*="ads-"]`, `[id*="ad-"]`, `[id*="ads-"]`,

	// social
	".social-share", ".share-buttons", ".social-links", ".social-icons",
	".sharing", ".share", `[class*="share"]`,

	// comments
	".comments", ".comment-section", "#comments", "#disqus_thread",
	".comment-list", ".comments-area",

	// related
	".related-posts", ".related-articles", ".recommended",
	".more-stories", ".also-read", ".read-more",

	// popups
	".popup", ".modal", ".overlay", ".lightbox",
	".cookie-notice", ".cookie-banner", ".cookie-consent",
	".newsletter-popup", ".subscribe-popup",

	// widgets
	".widget", ".widgets", ".sidebar-widget",
	".breadcrumb", ".breadcrumbs",
	".pagination", ".pager",
	".tags", ".tag-cloud",
	".author-bio", ".author-box",
	".print-only", ".screen-reader-text",

	// ids
	"#sidebar", "#menu", "#nav", "#navigation",
	"#footer", "#header", "#cookie-notice",
}

// removeTags never carry readable content.
const removeTags = "script, style, noscript, svg, canvas, iframe, object, embed, applet, meta, link, template"

var hiddenStyleRE = regexp.MustCompile(`(?i)display:\s*none|visibility:\s*hidden`)

var mayBeEmpty = map[string]bool{
	"img": true, "video": true, "audio": true, "br": true, "hr": true,
	"input": true, "source": true, "track": true, "wbr": true,
	"html": true, "head": true, "body": true,
}

// EmptyPasses is the number of passes made to remove nested empty elements.
const EmptyPasses = 3

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithExtraSelectors adds noise selectors to the default list.
func WithExtraSelectors(selectors ...string) CleanerOption {
	return func(c *Cleaner) {
		c.selectors = append(c.selectors, selectors...)
	}
}

// WithKeepHidden disables removal of hidden elements.
func WithKeepHidden() CleanerOption {
	return func(c *Cleaner) {
		c.removeHidden = false
	}
}

// WithKeepEmpty disables removal of empty elements.
func WithKeepEmpty() CleanerOption {
	return func(c *Cleaner) {
		c.removeEmpty = false
	}
}

// Cleaner is the deterministic pre-clean pass that removes structural
// noise before content scoring.
type Cleaner struct {
	selectors    []string
	removeHidden bool
	removeEmpty  bool
}

// NewCleaner creates a Cleaner. Returns EINVALID if an extra selector
// does not parse.
func NewCleaner(opts ...CleanerOption) (*Cleaner, error) {
	c := &Cleaner{
		selectors:    append([]string(nil), DefaultNoiseSelectors...),
		removeHidden: true,
		removeEmpty:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, s := range c.selectors {
		if _, err := cascadia.ParseGroup(s); err != nil {
			return nil, clipdoc.Errorf(clipdoc.EINVALID, "invalid noise selector %q: %v", s, err)
		}
	}
	return c, nil
}

// Clean removes script-like tags, comments, noise selectors, hidden
// elements and empty elements, in that order.
func (c *Cleaner) Clean(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return "", clipdoc.Errorf(clipdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(removeTags).Remove()
	for _, n := range doc.Nodes {
		removeComments(n)
	}
	for _, s := range c.selectors {
		doc.Find(s).Remove()
	}

	if c.removeHidden {
		doc.Find("[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hiddenStyleRE.MatchString(s.AttrOr("style", ""))
		}).Remove()
		doc.Find("[hidden]").Remove()
		doc.Find(`[aria-hidden="true"]`).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find("article, main, p").Length() == 0
		}).Remove()
	}

	if c.removeEmpty {
		for range EmptyPasses {
			removed := false
			doc.Find("*").Each(func(_ int, s *goquery.Selection) {
				if mayBeEmpty[goquery.NodeName(s)] {
					return
				}
				if strings.TrimSpace(s.Text()) != "" {
					return
				}
				if s.Find("img, video, audio, picture, figure").Length() > 0 {
					return
				}
				s.Remove()
				removed = true
			})
			if !removed {
				break
			}
		}
	}

	return doc.Html()
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
