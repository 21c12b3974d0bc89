package feeds

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/posts"
	"git.home.luguber.info/inful/folio/internal/version"
)

// ContentType is served for rss.xml and sitemap.xml.
const ContentType = "application/xml; charset=utf-8"

// CacheControl is the recommended cache policy for feed responses.
const CacheControl = "public, max-age=3600, stale-while-revalidate=86400"

const atomNamespace = "http://www.w3.org/2005/Atom"

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Generator     string    `xml:"generator,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// RSSOptions configures RenderRSS.
type RSSOptions struct {
	Site config.SiteConfig
	// Path is the feed location relative to the site root, for atom:link self.
	Path string
	// Limit caps the item count; 0 keeps every post.
	Limit int
	// BuildDate becomes lastBuildDate.
	BuildDate time.Time
}

// RenderRSS emits an RSS 2.0 document with one item per post, in the given
// order. Text is escaped by encoding/xml, never CDATA wrapped, so re-parsing
// the document yields the original strings.
func RenderRSS(list []*posts.Post, opts RSSOptions) ([]byte, error) {
	site := opts.Site
	path := opts.Path
	if path == "" {
		path = "rss.xml"
	}

	if opts.Limit > 0 && len(list) > opts.Limit {
		list = list[:opts.Limit]
	}

	items := make([]rssItem, 0, len(list))
	for _, p := range list {
		link := site.PostURL(p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			PubDate:     p.Date.UTC().Format(time.RFC1123Z),
			Description: content.StripMarkup(p.Excerpt),
			Categories:  p.Tags,
		})
	}

	doc := rssDocument{
		Version: "2.0",
		AtomNS:  atomNamespace,
		Channel: rssChannel{
			Title:         site.Title,
			Link:          site.URL(""),
			Description:   site.Description,
			Language:      site.Language,
			LastBuildDate: opts.BuildDate.UTC().Format(time.RFC1123Z),
			Generator:     version.UserAgent(),
			AtomLink:      atomLink{Href: site.URL(path), Rel: "self", Type: "application/rss+xml"},
			Items:         items,
		},
	}
	return marshalXML(doc)
}

func marshalXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
