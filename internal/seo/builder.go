package seo

import (
	"fmt"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/posts"
)

// Builder derives schema.org nodes from site settings and posts.
type Builder struct {
	site  config.SiteConfig
	ogDir string
}

// NewBuilder returns a builder. ogDir is the site-relative directory holding
// per-post OG images; it supplies BlogPosting.image for posts without one.
func NewBuilder(site config.SiteConfig, ogDir string) *Builder {
	return &Builder{site: site, ogDir: ogDir}
}

// PersonID is the stable @id of the site owner.
func (b *Builder) PersonID() string { return b.site.URL("") + "#author" }

// WebSiteID is the stable @id of the site.
func (b *Builder) WebSiteID() string { return b.site.URL("") + "#website" }

func (b *Builder) Person() Person {
	owner := b.site.Owner
	return Person{
		Type:     "Person",
		ID:       b.PersonID(),
		Name:     owner.Name,
		URL:      owner.URL,
		JobTitle: owner.JobTitle,
		Image:    b.absolute(owner.Image),
		SameAs:   owner.SameAs,
	}
}

func (b *Builder) WebSite() WebSite {
	return WebSite{
		Type:        "WebSite",
		ID:          b.WebSiteID(),
		URL:         b.site.URL(""),
		Name:        b.site.Title,
		Description: b.site.Description,
		InLanguage:  b.site.Language,
		Author:      Ref{ID: b.PersonID()},
		Publisher:   Ref{ID: b.PersonID()},
	}
}

// BlogPosting describes p. author and publisher always reference the site
// owner's Person node; a per-post author name is not emitted. dateModified falls back to datePublished and
// timeRequired is the reading time as an ISO-8601 duration.
func (b *Builder) BlogPosting(p *posts.Post) BlogPosting {
	url := b.site.PostURL(p.Slug)

	return BlogPosting{
		Type:             "BlogPosting",
		ID:               url + "#article",
		URL:              url,
		Headline:         p.Title,
		Description:      content.StripMarkup(p.Excerpt),
		DatePublished:    isoDate(p.Date),
		DateModified:     isoDate(p.LastModified()),
		WordCount:        p.WordCount,
		TimeRequired:     Duration(p.ReadingTime),
		Keywords:         p.Tags,
		Image:            b.postImage(p),
		InLanguage:       b.site.Language,
		MainEntityOfPage: WebPage{Type: "WebPage", ID: url},
		Author:           Ref{ID: b.PersonID()},
		Publisher:        Ref{ID: b.PersonID()},
		IsPartOf:         Ref{ID: b.WebSiteID()},
	}
}

// Breadcrumbs is Home > Blog > post title.
func (b *Builder) Breadcrumbs(p *posts.Post) BreadcrumbList {
	url := b.site.PostURL(p.Slug)
	return BreadcrumbList{
		Type: "BreadcrumbList",
		ID:   url + "#breadcrumb",
		ItemListElement: []ListItem{
			{Type: "ListItem", Position: 1, Name: "Home", Item: b.site.URL("")},
			{Type: "ListItem", Position: 2, Name: "Blog", Item: b.site.BlogURL()},
			{Type: "ListItem", Position: 3, Name: p.Title, Item: url},
		},
	}
}

// FAQPage returns nil when the post has no FAQ entries.
func (b *Builder) FAQPage(p *posts.Post) *FAQPage {
	if len(p.FAQ) == 0 {
		return nil
	}
	page := &FAQPage{Type: "FAQPage", ID: b.site.PostURL(p.Slug) + "#faq"}
	for _, f := range p.FAQ {
		page.MainEntity = append(page.MainEntity, Question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: f.Answer},
		})
	}
	return page
}

// HowTo returns nil when the post has no how-to data.
func (b *Builder) HowTo(p *posts.Post) *HowTo {
	if p.HowTo == nil || len(p.HowTo.Steps) == 0 {
		return nil
	}
	h := &HowTo{
		Type:        "HowTo",
		ID:          b.site.PostURL(p.Slug) + "#howto",
		Name:        p.HowTo.Name,
		Description: p.HowTo.Description,
		TotalTime:   p.HowTo.TotalTime,
	}
	for i, s := range p.HowTo.Steps {
		h.Step = append(h.Step, HowToStep{
			Type:     "HowToStep",
			Position: i + 1,
			Name:     s.Name,
			Text:     s.Text,
			URL:      b.absolute(s.URL),
		})
	}
	return h
}

// SiteGraph holds the Person and WebSite nodes for non-article pages.
func (b *Builder) SiteGraph() Graph {
	return Graph{Context: Context, Graph: []any{b.Person(), b.WebSite()}}
}

// PostGraph holds every node for an article page. FAQPage and HowTo appear
// only when the post supplies them.
func (b *Builder) PostGraph(p *posts.Post) Graph {
	nodes := []any{b.Person(), b.WebSite(), b.BlogPosting(p), b.Breadcrumbs(p)}
	if faq := b.FAQPage(p); faq != nil {
		nodes = append(nodes, faq)
	}
	if howto := b.HowTo(p); howto != nil {
		nodes = append(nodes, howto)
	}
	return Graph{Context: Context, Graph: nodes}
}

// Duration formats minutes as an ISO-8601 duration, e.g. PT12M.
func Duration(minutes int) string {
	return fmt.Sprintf("PT%dM", max(minutes, 1))
}

func (b *Builder) postImage(p *posts.Post) string {
	if p.Image != "" {
		return b.absolute(p.Image)
	}
	if b.ogDir == "" {
		return ""
	}
	return b.site.URL(path.Join(b.ogDir, p.Slug+".png"))
}

// absolute resolves a site-relative reference against the base URL.
func (b *Builder) absolute(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return b.site.URL(ref)
}

func isoDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
