package feeds

import (
	"encoding/xml"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/posts"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap tiers: the home page ranks above the blog index, which ranks above
// individual posts.
const (
	HomePriority = "1.0"
	BlogPriority = "0.8"
	PostPriority = "0.6"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// RenderSitemap emits a sitemap v0.9 document listing the home page, the blog
// index and every post. Home and index take the newest post modification as
// their lastmod; posts use dateModified, falling back to date.
func RenderSitemap(list []*posts.Post, site config.SiteConfig) ([]byte, error) {
	var latest time.Time
	for _, p := range list {
		if lm := p.LastModified(); lm.After(latest) {
			latest = lm
		}
	}

	urls := make([]sitemapURL, 0, len(list)+2)
	urls = append(urls,
		sitemapURL{Loc: site.URL(""), LastMod: w3cDate(latest), ChangeFreq: "weekly", Priority: HomePriority},
		sitemapURL{Loc: site.BlogURL(), LastMod: w3cDate(latest), ChangeFreq: "daily", Priority: BlogPriority},
	)
	for _, p := range list {
		urls = append(urls, sitemapURL{
			Loc:        site.PostURL(p.Slug),
			LastMod:    w3cDate(p.LastModified()),
			ChangeFreq: "monthly",
			Priority:   PostPriority,
		})
	}
	return marshalXML(urlSet{Xmlns: sitemapNamespace, URLs: urls})
}

func w3cDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
