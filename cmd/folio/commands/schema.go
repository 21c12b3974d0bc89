package commands

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/seo"
)

// SchemaCmd implements the 'schema' command.
type SchemaCmd struct {
	Slug string `arg:"" optional:"" help:"Post slug; omit for the site-level graph"`
}

func (c *SchemaCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	b := seo.NewBuilder(s.cfg.Site, s.cfg.OG.Dir)
	graph := b.SiteGraph()
	if c.Slug != "" {
		repo, err := s.builder.Repository(ctx)
		if err != nil {
			return err
		}
		p, ok := repo.GetBySlug(c.Slug)
		if !ok {
			return ferrors.NewError(ferrors.CategoryNotFound, "post not found").
				WithContext("slug", c.Slug).
				Build()
		}
		graph = b.PostGraph(p)
	}

	tag, err := seo.ScriptTag(graph)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRender, "failed to encode JSON-LD").Build()
	}
	_, err = fmt.Fprintln(g.out(), tag)
	return err
}
