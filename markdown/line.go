package markdown

import (
	"strings"

	"github.com/fwojciec/clipdoc"
)

// line accumulates the text of one block with its spans. Offsets are in
// UTF-16 code units.
type line struct {
	text  string
	n     int
	spans []clipdoc.FormatSpan
}

// add appends s. A styled run extends the previous span when it is
// adjacent and has the same style; an unstyled run produces no span.
func (l *line) add(s string, style clipdoc.TextStyle) {
	if s == "" {
		return
	}
	size := clipdoc.TextLen(s)
	if !style.IsZero() {
		if k := len(l.spans) - 1; k >= 0 && l.spans[k].End == l.n && l.spans[k].Style == style {
			l.spans[k].End += size
		} else {
			l.spans = append(l.spans, clipdoc.FormatSpan{Start: l.n, End: l.n + size, Style: style})
		}
	}
	l.text += s
	l.n += size
}

// join appends o after sep, translating its spans.
func (l *line) join(o line, sep string) {
	l.add(sep, clipdoc.TextStyle{})
	for _, s := range o.spans {
		s.Start += l.n
		s.End += l.n
		l.spans = append(l.spans, s)
	}
	l.text += o.text
	l.n += o.n
}

// prefix inserts p before the text, shifting every span.
func (l *line) prefix(p string) {
	size := clipdoc.TextLen(p)
	for i := range l.spans {
		l.spans[i].Start += size
		l.spans[i].End += size
	}
	l.text = p + l.text
	l.n += size
}

// embolden marks the whole line bold. Gaps between existing spans get
// their own bold spans.
func (l *line) embolden() {
	if l.n == 0 {
		return
	}
	var out []clipdoc.FormatSpan
	pos := 0
	for _, s := range l.spans {
		if s.Start > pos {
			out = append(out, clipdoc.FormatSpan{Start: pos, End: s.Start, Style: clipdoc.TextStyle{Bold: true}})
		}
		s.Style.Bold = true
		out = append(out, s)
		pos = s.End
	}
	if pos < l.n {
		out = append(out, clipdoc.FormatSpan{Start: pos, End: l.n, Style: clipdoc.TextStyle{Bold: true}})
	}
	l.spans = out
}

// trim removes surrounding spaces, shifting and clipping spans to match.
func (l *line) trim() {
	left := strings.TrimLeft(l.text, " ")
	cut := l.n - clipdoc.TextLen(left)
	l.text = strings.TrimRight(left, " ")
	l.n = clipdoc.TextLen(l.text)
	out := l.spans[:0]
	for _, s := range l.spans {
		s.Start = max(s.Start-cut, 0)
		s.End = min(s.End-cut, l.n)
		if s.Start < s.End {
			out = append(out, s)
		}
	}
	l.spans = out
}

func (l *line) block(kind clipdoc.BlockKind, level int) clipdoc.Block {
	return clipdoc.Block{
		Kind:  kind,
		Level: level,
		Text:  l.text + "\n",
		Spans: l.spans,
	}
}
