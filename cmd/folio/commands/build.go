package commands

import (
	"fmt"

	"git.home.luguber.info/inful/folio/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ForceImages bool `name:"force-images" help:"Re-render every OG image even when it is newer than posts.json"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintln(g.out(), "Starting folio build")
	report, err := s.builder.Build(ctx, site.BuildOptions{ForceImages: b.ForceImages})
	if err == nil {
		fmt.Fprintf(g.out(), "Wrote %d artifacts to %s\n", len(report.Artifacts), s.cfg.OutputDir())
	}
	return s.finish(report, err)
}

// MetadataCmd implements the 'metadata' command.
type MetadataCmd struct{}

func (m *MetadataCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	report, err := s.builder.Metadata(ctx)
	if err == nil {
		if report.SnapshotWritten {
			fmt.Fprintf(g.out(), "Wrote %s (%d posts)\n", s.cfg.SnapshotPath(), report.Published)
		} else {
			fmt.Fprintf(g.out(), "%s is up to date (%d posts)\n", s.cfg.SnapshotPath(), report.Published)
		}
	}
	return s.finish(report, err)
}
