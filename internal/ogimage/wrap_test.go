package ogimage

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestWrapTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		chars int
		lines int
		want  []string
	}{
		{"fits", "Hello world", 28, 3, []string{"Hello world"}},
		{"empty", "   ", 28, 3, nil},
		{"wraps", "Building a static content pipeline in Go", 20, 3,
			[]string{"Building a static", "content pipeline in", "Go"}},
		{"truncates", "one two three four five six seven eight", 9, 2,
			[]string{"one two", "three…"}},
		{"splits long words", "Supercalifragilistic", 8, 3,
			[]string{"Supercal", "ifragili", "stic"}},
		{"collapses whitespace", "a \n\t b", 10, 3, []string{"a b"}},
		{"trims punctuation before ellipsis", "alpha, beta, gamma, delta", 7, 2,
			[]string{"alpha,", "beta…"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapTitle(tt.title, tt.chars, tt.lines))
		})
	}
}

func TestWrapTitleRespectsLimits(t *testing.T) {
	title := "An unreasonably long article title that keeps going well past any sensible card width and then some more"
	lines := WrapTitle(title, 28, 3)
	assert.Len(t, lines, 3)
	for _, l := range lines {
		assert.LessOrEqual(t, utf8.RuneCountInString(l), 28, l)
	}
	assert.Equal(t, Ellipsis, string([]rune(lines[2])[utf8.RuneCountInString(lines[2])-1:]))
}
