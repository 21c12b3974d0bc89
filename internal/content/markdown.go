package content

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// md is shared; goldmark parsers and renderers are safe for concurrent use.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// parseBody parses a Markdown body (front matter already removed) into an AST.
func parseBody(body []byte) gmast.Node {
	return md.Parser().Parse(text.NewReader(body))
}

// RenderHTML renders a Markdown body to HTML. Raw HTML and MDX components in
// the source are omitted from the output.
func RenderHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// inlineText concatenates the literal text below n.
func inlineText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch c := child.(type) {
		case *gmast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(c.Value)
		case *gmast.AutoLink:
			buf.Write(c.Label(source))
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(buf.Bytes()))
}
