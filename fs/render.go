package fs

import (
	"strings"

	"github.com/fwojciec/clipdoc"
)

// Render formats replayed document content as markdown. Paragraphs are
// separated by blank lines except between consecutive list items.
func Render(c *clipdoc.Content) string {
	var b strings.Builder
	prevList := false
	for i, p := range c.Paragraphs {
		list := p.Bullet != clipdoc.BulletNone
		if i > 0 && !(list && prevList) {
			b.WriteString("\n")
		}
		switch {
		case p.HeadingLevel > 0:
			b.WriteString(strings.Repeat("#", p.HeadingLevel) + " ")
		case p.Bullet == clipdoc.BulletOrdered:
			b.WriteString("1. ")
		case list:
			b.WriteString("- ")
		}
		for _, r := range c.Runs(p) {
			b.WriteString(renderRun(r))
		}
		b.WriteString("\n")
		prevList = list
	}
	return b.String()
}

// renderRun wraps a run in markdown markers. Surrounding whitespace stays
// outside the markers.
func renderRun(r clipdoc.Run) string {
	core := strings.TrimSpace(r.Text)
	if core == "" || r.Style.IsZero() {
		return r.Text
	}
	lead := r.Text[:strings.Index(r.Text, core)]
	trail := r.Text[len(lead)+len(core):]

	s := core
	if r.Style.Code {
		s = "`" + s + "`"
	}
	if r.Style.Italic {
		s = "*" + s + "*"
	}
	if r.Style.Bold {
		s = "**" + s + "**"
	}
	if r.Style.Link != "" {
		s = "[" + s + "](" + r.Style.Link + ")"
	}
	return lead + s + trail
}
