package ogimage

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis terminates a title that does not fit in the allowed lines.
const Ellipsis = "…"

// WrapTitle breaks title into lines of at most maxChars runes, greedily by
// word. Words longer than a line are split. When more than maxLines lines
// would be needed the last kept line ends with an ellipsis.
func WrapTitle(title string, maxChars, maxLines int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	if maxLines < 1 {
		maxLines = 1
	}

	var lines []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}

	for _, word := range strings.Fields(title) {
		w := []rune(word)
		for len(w) > maxChars {
			flush()
			lines = append(lines, string(w[:maxChars]))
			w = w[maxChars:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= maxChars:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			flush()
			cur = append(cur, w...)
		}
	}
	flush()

	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	lines[maxLines-1] = withEllipsis(lines[maxLines-1], maxChars)
	return lines
}

func withEllipsis(line string, maxChars int) string {
	r := []rune(strings.TrimRight(line, " "))
	limit := maxChars - utf8.RuneCountInString(Ellipsis)
	if len(r) > limit {
		r = r[:max(limit, 0)]
	}
	return strings.TrimRight(string(r), " .,;:-") + Ellipsis
}
