package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"one  two\nthree\tfour", 4},
		{"  leading and trailing  ", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WordCount(tt.in), "WordCount(%q)", tt.in)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words, wpm, want int
	}{
		{0, 200, 1},
		{1, 200, 1},
		{200, 200, 1},
		{201, 200, 2},
		{2400, 200, 12},
		{100, 0, 1},
		{450, 150, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingTime(tt.words, tt.wpm), "ReadingTime(%d, %d)", tt.words, tt.wpm)
	}
}

func TestReadingTimeIsMonotonic(t *testing.T) {
	prev := ReadingTime(0, DefaultWordsPerMinute)
	for wc := 1; wc <= 5000; wc++ {
		got := ReadingTime(wc, DefaultWordsPerMinute)
		if got < prev {
			t.Fatalf("reading time decreased at %d words: %d < %d", wc, got, prev)
		}
		if got < 1 {
			t.Fatalf("reading time below floor at %d words", wc)
		}
		prev = got
	}
}

func TestPlainTextCountsRenderedWords(t *testing.T) {
	body := []byte(strings.Join([]string{
		"# Title",
		"",
		"Some *emphasised* text with a [link](https://example.com).",
		"",
		"<!-- an author note -->",
		"",
		"- item one",
		"- item two",
		"",
		"```go",
		"fmt.Println(\"hi\")",
		"```",
	}, "\n"))

	text, err := PlainText(body)
	assert.NoError(t, err)
	assert.NotContains(t, text, "author note")
	assert.NotContains(t, text, "<")
	assert.Contains(t, text, "emphasised")
	// Title + 6 words of paragraph + 4 list words + 1 code token
	assert.Equal(t, 12, WordCount(text))
}

func TestPlainTextSeparatesOmittedRawHTML(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"Hello<br>world", 2},
		{"Hello<br/>world and <Callout>note</Callout>done", 5},
		{"one<!-- hidden -->two", 2},
	}
	for _, tt := range tests {
		text, err := PlainText([]byte(tt.body))
		assert.NoError(t, err)
		assert.Equal(t, tt.want, WordCount(text), "%q -> %q", tt.body, text)
	}
}

func TestPlainTextDecodesEntities(t *testing.T) {
	text, err := PlainText([]byte("Fish &amp; chips"))
	assert.NoError(t, err)
	assert.Equal(t, "Fish & chips", text)
}

func TestPlainTextEmptyBody(t *testing.T) {
	text, err := PlainText(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, WordCount(text))
	assert.Equal(t, 1, ReadingTime(WordCount(text), DefaultWordsPerMinute))
}
