package content

import (
	gmast "github.com/yuin/goldmark/ast"
)

// TOCEntry is one heading in a post's table of contents.
type TOCEntry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// MinTOCLevel is the shallowest heading level listed in a table of contents.
// The level-one heading is the page title.
const MinTOCLevel = 2

// TableOfContents lists every heading of level >= 2 in document order.
//
// Ids are assigned across all headings, including level one, so they match
// the anchors of the rendered page; repeated ids are suffixed -2, -3, ...
func TableOfContents(body []byte) []TOCEntry {
	root := parseBody(body)
	ids := NewIDRegistry()
	entries := make([]TOCEntry, 0)

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		label := inlineText(h, body)
		id := ids.Assign(label)
		if h.Level >= MinTOCLevel {
			entries = append(entries, TOCEntry{ID: id, Text: label, Level: h.Level})
		}
		return gmast.WalkSkipChildren, nil
	})
	return entries
}
