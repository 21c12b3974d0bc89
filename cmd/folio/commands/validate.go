package commands

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/folio/internal/snapshot"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := s.builder.Validate(ctx)
	if res != nil {
		printSyncResult(g.out(), res)
	}
	return err
}

func printSyncResult(w io.Writer, r *snapshot.SyncResult) {
	if r.InSync() {
		_, _ = fmt.Fprintf(w, "In sync: %d posts\n", r.Expected)
	} else {
		_, _ = fmt.Fprintf(w, "Out of sync: %d documents on disk, totalPosts %d, %d listed\n", r.Expected, r.Claimed, r.Listed)
	}
	section := func(label string, slugs []string) {
		if len(slugs) > 0 {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", label, strings.Join(slugs, ", "))
		}
	}
	section("missing", r.Missing)
	section("extra", r.Extra)
	section("duplicate", r.Duplicates)
	section("unsafe slug", r.UnsafeSlugs)
	section("stale", r.Stale)
}
