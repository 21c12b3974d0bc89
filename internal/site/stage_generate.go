package site

import (
	"context"
	"errors"

	"git.home.luguber.info/inful/folio/internal/feeds"
	"git.home.luguber.info/inful/folio/internal/ogimage"
)

func stageGenerateRSS(ctx context.Context, bs *BuildState) error {
	cfg := bs.Config
	data, err := feeds.RenderRSS(bs.Snapshot.Posts, feeds.RSSOptions{
		Site:      cfg.Site,
		Path:      cfg.Feeds.RSS.Path,
		Limit:     cfg.Feeds.RSS.Limit,
		BuildDate: bs.Now(),
	})
	if err != nil {
		return err
	}
	return bs.writeArtifact(ctx, "rss", cfg.Feeds.RSS.Path, data)
}

func stageGenerateSitemap(ctx context.Context, bs *BuildState) error {
	cfg := bs.Config
	data, err := feeds.RenderSitemap(bs.Snapshot.Posts, cfg.Site)
	if err != nil {
		return err
	}
	return bs.writeArtifact(ctx, "sitemap", cfg.Feeds.Sitemap.Path, data)
}

func stageWriteRobots(ctx context.Context, bs *BuildState) error {
	cfg := bs.Config
	sitemapPath := ""
	if cfg.Feeds.Sitemap.Enabled {
		sitemapPath = cfg.Feeds.Sitemap.Path
	}
	data := feeds.RenderRobots(cfg.Site, cfg.Feeds.Robots.Crawlers, sitemapPath)
	return bs.writeArtifact(ctx, "robots", cfg.Feeds.Robots.Path, data)
}

func stageGenerateOG(ctx context.Context, bs *BuildState) error {
	r, err := ogimage.NewRenderer(bs.Config, bs.Writer, bs.Recorder)
	if err != nil {
		return err
	}
	r.Force = bs.ForceImages

	postRes, postErr := r.RenderPosts(ctx, bs.Snapshot.Posts, bs.SnapshotModTime)
	siteRes, siteErr := r.RenderSite(ctx)
	for _, rel := range append(postRes.Written, siteRes.Written...) {
		bs.Report.AddArtifact(rel)
	}
	bs.Report.AddImages(postRes.Rendered+siteRes.Rendered, postRes.Skipped)
	return errors.Join(postErr, siteErr)
}
