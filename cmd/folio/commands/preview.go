package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/folio/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Addr         string        `help:"Listen address" default:":1316"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Also rebuild on this interval (0 disables)" default:"0s"`
	Debounce     time.Duration `help:"Quiet period before a content change triggers a rebuild" default:"300ms"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	_, _ = fmt.Fprintf(g.out(), "Previewing %s on %s\n", s.cfg.OutputDir(), p.Addr)
	return preview.Run(ctx, s.builder, preview.Options{
		Addr:         p.Addr,
		RebuildEvery: p.RebuildEvery,
		Debounce:     p.Debounce,
		Registry:     s.registry,
	})
}
