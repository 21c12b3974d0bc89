package commands

import (
	"git.home.luguber.info/inful/folio/internal/site"
)

// RSSCmd implements the 'rss' command.
type RSSCmd struct{}

func (c *RSSCmd) Run(_ *Global, root *CLI) error {
	return runGenerate(root, false, site.TargetRSS)
}

// SitemapCmd implements the 'sitemap' command.
type SitemapCmd struct{}

func (c *SitemapCmd) Run(_ *Global, root *CLI) error {
	return runGenerate(root, false, site.TargetSitemap)
}

// RobotsCmd implements the 'robots' command.
type RobotsCmd struct{}

func (c *RobotsCmd) Run(_ *Global, root *CLI) error {
	return runGenerate(root, false, site.TargetRobots)
}

// OGCmd implements the 'og' command.
type OGCmd struct {
	Force bool `short:"f" help:"Re-render every image even when it is newer than posts.json"`
}

func (c *OGCmd) Run(_ *Global, root *CLI) error {
	return runGenerate(root, c.Force, site.TargetOG)
}

// runGenerate runs single generators against an existing posts.json.
func runGenerate(root *CLI, force bool, targets ...site.Target) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	report, err := s.builder.Generate(ctx, force, targets...)
	return s.finish(report, err)
}
