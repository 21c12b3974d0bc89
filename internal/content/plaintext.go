package content

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// PlainText renders a Markdown body and returns the visible text of the
// resulting HTML. Block boundaries become whitespace so that words from
// adjacent elements never merge.
func PlainText(body []byte) (string, error) {
	rendered, err := RenderHTML(body)
	if err != nil {
		return "", err
	}
	return HTMLText(rendered)
}

// HTMLText extracts text nodes from an HTML fragment, skipping comments,
// scripts and styles.
func HTMLText(fragment []byte) (string, error) {
	z := html.NewTokenizer(bytes.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return strings.TrimSpace(b.String()), nil
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if isRawTextElement(name) {
				skip++
			}
			if !inlineElements[string(name)] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawTextElement(name) && skip > 0 {
				skip--
			}
			if !inlineElements[string(name)] {
				b.WriteByte(' ')
			}
		case html.SelfClosingTagToken, html.CommentToken:
			// Raw HTML and MDX components render as comments.
			b.WriteByte(' ')
		}
	}
}

var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "del": true, "em": true,
	"i": true, "kbd": true, "mark": true, "s": true, "span": true,
	"strong": true, "sub": true, "sup": true,
}

func isRawTextElement(name []byte) bool {
	s := string(name)
	return s == "script" || s == "style"
}
