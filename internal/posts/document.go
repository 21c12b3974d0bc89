package posts

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// Options controls how documents are converted into Posts.
type Options struct {
	// WordsPerMinute feeds the reading time calculation.
	WordsPerMinute int
	// DefaultAuthor is used when a document names no author.
	DefaultAuthor string
	// PublishedDefault applies when neither published nor draft is set.
	PublishedDefault bool
	// Now supplies the fallback date for documents without one.
	Now func() time.Time
	// LastModified, when set, supplies dateModified for documents that do not
	// declare one. source is the absolute path of the document.
	LastModified func(source string) (time.Time, bool)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// FromDocument builds a Post from a parsed document. rel is the document path
// relative to the content root (slash separated); abs is its filesystem path.
//
// Absent title, date and excerpt take their documented defaults. A value that
// is present but cannot be interpreted is an error.
func FromDocument(rel, abs string, doc *frontmatter.Document, opts Options) (*Post, error) {
	slug := content.SlugFromPath(rel)
	if slug == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptySlug, rel)
	}

	m := doc.Metadata
	p := &Post{
		Slug:   slug,
		Title:  stringField(m, "title"),
		Author: opts.DefaultAuthor,
		Source: rel,
		Body:   doc.Body,
		Tags:   []string{},
	}
	if p.Title == "" {
		p.Title = slug
	}

	if v, key, ok := first(m, dateKeys); ok {
		d, err := parseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		p.Date = d
	} else {
		p.Date = opts.now()
		slog.Warn("Post has no date; using the current time", logfields.Slug(slug), logfields.Path(rel))
	}

	if v, key, ok := first(m, dateModifiedKeys); ok {
		d, err := parseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		p.DateModified = d
	} else if opts.LastModified != nil {
		if d, ok := opts.LastModified(abs); ok {
			p.DateModified = d.UTC()
		}
	}
	if p.DateModified.IsZero() || p.DateModified.Before(p.Date) {
		p.DateModified = p.Date
	}

	p.Excerpt = stringField(m, excerptKeys...)
	p.Image = stringField(m, imageKeys...)
	p.TLDR = stringField(m, "tldr", "tl_dr")

	if v, ok := m["tags"]; ok {
		tags, err := stringList(v)
		if err != nil {
			return nil, fmt.Errorf("tags: %w", err)
		}
		p.Tags = tags
	}

	if v, ok := m["author"]; ok && v != nil {
		author, err := parseAuthor(v)
		if err != nil {
			return nil, err
		}
		if author != "" {
			p.Author = author
		}
	}

	published, err := resolvePublished(m, opts.PublishedDefault)
	if err != nil {
		return nil, err
	}
	p.Published = published

	if v, key, ok := first(m, takeawayKeys); ok {
		list, err := stringList(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if len(list) > 0 {
			p.KeyTakeaways = list
		}
	}
	if v, ok := m["faq"]; ok && v != nil {
		faq, err := parseFAQ(v)
		if err != nil {
			return nil, err
		}
		if len(faq) > 0 {
			p.FAQ = faq
		}
	}
	if v, _, ok := first(m, howtoKeys); ok {
		h, err := parseHowTo(v)
		if err != nil {
			return nil, err
		}
		if h.Name == "" {
			h.Name = p.Title
		}
		p.HowTo = h
	}

	text, err := content.PlainText(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}
	p.WordCount = content.WordCount(text)
	p.ReadingTime = content.ReadingTime(p.WordCount, opts.WordsPerMinute)
	p.TOC = content.TableOfContents(doc.Body)

	fp, err := ComputeFingerprint(m, doc.Body)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	p.Fingerprint = fp

	return p, nil
}

// resolvePublished applies published, then draft, then the configured default.
func resolvePublished(m map[string]any, def bool) (bool, error) {
	if v, ok := m["published"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("published: expected a boolean, got %T", v)
		}
		return b, nil
	}
	if v, ok := m["draft"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("draft: expected a boolean, got %T", v)
		}
		return !b, nil
	}
	return def, nil
}
