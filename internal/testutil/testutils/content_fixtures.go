package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PostFixture describes a content document written by WritePost.
type PostFixture struct {
	Title     string
	Date      string // YYYY-MM-DD; omitted when empty
	Excerpt   string
	Tags      []string
	Published bool
	Body      string
}

// Markdown renders the fixture as a document with YAML front matter.
func (p PostFixture) Markdown() string {
	var b strings.Builder
	b.WriteString("---\n")
	if p.Title != "" {
		fmt.Fprintf(&b, "title: %q\n", p.Title)
	}
	if p.Date != "" {
		fmt.Fprintf(&b, "date: %s\n", p.Date)
	}
	if p.Excerpt != "" {
		fmt.Fprintf(&b, "excerpt: %q\n", p.Excerpt)
	}
	if len(p.Tags) > 0 {
		quoted := make([]string, len(p.Tags))
		for i, tag := range p.Tags {
			quoted[i] = fmt.Sprintf("%q", tag)
		}
		fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(quoted, ", "))
	}
	fmt.Fprintf(&b, "published: %t\n", p.Published)
	b.WriteString("---\n")
	b.WriteString(p.Body)
	return b.String()
}

// WritePost writes the fixture to dir/name and returns the full path.
func WritePost(t *testing.T, dir, name string, p PostFixture) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, name), p.Markdown())
}

// WriteFile writes body to path, creating parent directories.
func WriteFile(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
