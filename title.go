package clipdoc

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTitleLength is the maximum number of characters in a document title.
const MaxTitleLength = 200

var (
	whitespaceRE   = regexp.MustCompile(`\s+`)
	badTitleCharRE = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	headingRE      = regexp.MustCompile(`^\s*#\s+(.+?)\s*$`)
	urlNameCharRE  = regexp.MustCompile(`[^A-Za-z0-9._ -]+`)
)

// SanitizeTitle normalizes a title for use as a document name.
// Whitespace is collapsed, characters that stores reject are removed and
// the result is truncated to MaxTitleLength characters. An empty result
// becomes "Untitled".
func SanitizeTitle(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = whitespaceRE.ReplaceAllString(s, " ")
	s = badTitleCharRE.ReplaceAllString(s, "")
	if utf8.RuneCountInString(s) > MaxTitleLength {
		s = string([]rune(s)[:MaxTitleLength])
	}
	if s == "" {
		return "Untitled"
	}
	return s
}

// TitleFromMarkdown returns the text of the first level-1 heading.
func TitleFromMarkdown(markdown string) (string, bool) {
	for line := range strings.Lines(markdown) {
		if m := headingRE.FindStringSubmatch(strings.TrimRight(line, "\r\n")); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// FallbackTitle derives a name from the host and path of rawURL, e.g.
// "example.com - blog - post".
func FallbackTitle(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "page"
	}
	base := strings.Trim(u.Host+u.Path, "/")
	base = strings.ReplaceAll(base, "/", " - ")
	base = strings.TrimSpace(urlNameCharRE.ReplaceAllString(base, ""))
	if base == "" {
		return "page"
	}
	return base
}

// ResolveTitle picks the document title for an extraction: the metadata
// title, else the first heading of the markdown, else a name derived from
// the URL. The result is sanitized.
func ResolveTitle(metadataTitle, markdown, rawURL string) string {
	if t := strings.TrimSpace(metadataTitle); t != "" {
		return SanitizeTitle(t)
	}
	if t, ok := TitleFromMarkdown(markdown); ok {
		return SanitizeTitle(t)
	}
	return SanitizeTitle(FallbackTitle(rawURL))
}
