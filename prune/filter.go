package prune

import (
	"regexp"
	"strings"
)

var orderedItemRE = regexp.MustCompile(`^\d+\.`)

// FilterShortBlocks drops markdown paragraphs with fewer than minWords
// words. Headings, code, lists and quotes are always kept. Blank lines
// inside fenced code do not split blocks.
func FilterShortBlocks(markdown string, minWords int) string {
	var kept []string
	for _, block := range splitBlocks(markdown) {
		if structuralBlock(block) || len(strings.Fields(block)) >= minWords {
			kept = append(kept, block)
		}
	}
	return strings.Join(kept, "\n\n")
}

// splitBlocks splits markdown at blank lines outside fenced code. Leading
// indentation is kept so indented code stays recognizable.
func splitBlocks(markdown string) []string {
	var blocks, cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.TrimRight(strings.Join(cur, "\n"), " \t\n"))
			cur = cur[:0]
		}
	}

	fence := ""
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) && strings.TrimLeft(trimmed, fence[:1]) == "" {
				fence = ""
			}
		case trimmed == "":
			flush()
			continue
		default:
			fence = fenceMarker(trimmed)
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

// fenceMarker returns the run of backticks or tildes opening a code
// fence, or "" when line opens none.
func fenceMarker(line string) string {
	for _, c := range []string{"`", "~"} {
		n := len(line) - len(strings.TrimLeft(line, c))
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}

func structuralBlock(b string) bool {
	if strings.HasPrefix(b, "    ") || strings.HasPrefix(b, "\t") {
		return true
	}
	b = strings.TrimSpace(b)
	switch {
	case strings.HasPrefix(b, "#"),
		strings.HasPrefix(b, "```"),
		strings.HasPrefix(b, "~~~"),
		strings.HasPrefix(b, "- "),
		strings.HasPrefix(b, "* "),
		strings.HasPrefix(b, ">"),
		orderedItemRE.MatchString(b):
		return true
	}
	return false
}
