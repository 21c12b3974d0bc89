package feeds

import (
	"strings"

	"git.home.luguber.info/inful/folio/internal/config"
)

// RenderRobots allows every user agent, repeats the allowance for each named
// crawler and points at the sitemap.
func RenderRobots(site config.SiteConfig, crawlers []string, sitemapPath string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	for _, c := range crawlers {
		c = strings.TrimSpace(c)
		if c == "" || c == "*" {
			continue
		}
		b.WriteString("\nUser-agent: ")
		b.WriteString(c)
		b.WriteString("\nAllow: /\n")
	}
	if sitemapPath != "" {
		b.WriteString("\nSitemap: ")
		b.WriteString(site.URL(sitemapPath))
		b.WriteString("\n")
	}
	return []byte(b.String())
}
