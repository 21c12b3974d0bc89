// Package posts turns content documents into Posts and answers the queries
// page renderers need: list, lookup by slug and related posts.
package posts

import (
	"errors"
	"time"

	"git.home.luguber.info/inful/folio/internal/content"
)

var (
	// ErrMalformedDocument marks a document whose front matter or fields cannot be interpreted.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrDuplicateSlug marks two documents resolving to the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrEmptySlug marks a document whose file name yields no slug characters.
	ErrEmptySlug = errors.New("empty slug")
)

// Post is the derived record for one content document.
type Post struct {
	Slug         string             `json:"slug"`
	Title        string             `json:"title"`
	Date         time.Time          `json:"date"`
	DateModified time.Time          `json:"dateModified"`
	Excerpt      string             `json:"excerpt"`
	Tags         []string           `json:"tags"`
	Author       string             `json:"author"`
	Published    bool               `json:"published"`
	Image        string             `json:"image,omitempty"`
	WordCount    int                `json:"wordCount"`
	ReadingTime  int                `json:"readingTime"`
	TOC          []content.TOCEntry `json:"toc"`
	TLDR         string             `json:"tldr,omitempty"`
	KeyTakeaways []string           `json:"keyTakeaways,omitempty"`
	FAQ          []FAQ              `json:"faq,omitempty"`
	HowTo        *HowTo             `json:"howto,omitempty"`
	Fingerprint  string             `json:"fingerprint,omitempty"`
	// Source is the slash-separated path relative to the content directory.
	Source string `json:"source"`

	// Body is the Markdown body; it is never exported.
	Body []byte `json:"-"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type HowTo struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	TotalTime   string      `json:"totalTime,omitempty"`
	Steps       []HowToStep `json:"steps"`
}

type HowToStep struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// LastModified returns DateModified, falling back to Date.
func (p *Post) LastModified() time.Time {
	if p.DateModified.IsZero() {
		return p.Date
	}
	return p.DateModified
}

// IsPublic reports whether the post may appear in listings, feeds and the sitemap.
func (p *Post) IsPublic(includeDrafts bool) bool {
	return p.Published || includeDrafts
}
