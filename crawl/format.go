package crawl

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/clipdoc"
)

// FormatCount formats n with comma thousands separators, e.g. 12,345.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatOutcome renders the status line of one outcome:
//
//	[OK] || [http with trafilatura] || 12,345 chars || "Title" || https://src -> https://doc
//	[FAIL] || https://src || cause
func FormatOutcome(o *clipdoc.Outcome) string {
	if !o.OK() {
		return fmt.Sprintf("[FAIL] || %s || %s", o.URL, clipdoc.ErrorMessage(o.Err))
	}
	doc := o.Publication.Document
	return fmt.Sprintf("[OK] || [%s with %s] || %s chars || %q || %s -> %s",
		o.Result.Strategy.Backend,
		o.Result.Strategy.Algorithm,
		FormatCount(o.Result.Length),
		doc.Title,
		o.URL,
		doc.URL,
	)
}

// progressURLWidth is the display width of URLs in progress lines.
const progressURLWidth = 60

// FormatProgress renders one progress event, e.g.
//
//	[round 2] 3/7 FAIL ...example.com/very/long/path
func FormatProgress(p clipdoc.Progress) string {
	status := "ok"
	if p.Err != nil {
		status = "FAIL"
	}
	return fmt.Sprintf("[round %d] %d/%d %s %s", p.Round, p.Completed, p.Total, status, TruncateURL(p.URL, progressURLWidth))
}

// FormatSummary renders the closing lines of a run.
func FormatSummary(r *Report) string {
	total := r.Succeeded + r.Failed
	s := fmt.Sprintf("Done: %d/%d succeeded, %d failed.", r.Succeeded, total, r.Failed)
	if r.Exhausted && r.Rounds > 1 {
		s += fmt.Sprintf("\n(Failed URLs were retried %d times)", r.Rounds-1)
	}
	return s
}
