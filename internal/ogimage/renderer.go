package ogimage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/fsutil"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/posts"
	"git.home.luguber.info/inful/folio/internal/util/sets"
)

// StampFile sits in og.dir and holds the fingerprint of the card style the
// post images were rendered with. A missing or different stamp re-renders
// every post image.
const StampFile = ".style-stamp"

// Result summarizes one rendering pass.
type Result struct {
	Rendered int
	Skipped  int
	Failed   int
	// Written lists every file written, relative to the output directory.
	Written []string
	// Removed lists cards deleted because their post left the snapshot.
	Removed []string
}

// Renderer writes per-post and site-level cards into the output directory.
type Renderer struct {
	cfg      *config.Config
	style    Style
	writer   *fsutil.Writer
	recorder metrics.Recorder
	// Force disables the modification-time skip.
	Force bool
}

// NewRenderer validates the configured palette and returns a Renderer.
func NewRenderer(cfg *config.Config, w *fsutil.Writer, rec metrics.Recorder) (*Renderer, error) {
	palette, err := PaletteFromConfig(cfg.OG.Colors)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = fsutil.NewWriter()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Renderer{
		cfg:      cfg,
		style:    Style{Palette: palette, MaxLineChars: cfg.OG.MaxLineChars, MaxLines: cfg.OG.MaxLines},
		writer:   w,
		recorder: rec,
	}, nil
}

// PostImagePath is the output-relative path of a post's PNG card.
func (r *Renderer) PostImagePath(slug string) string {
	return path.Join(r.cfg.OG.Dir, slug+".png")
}

// RenderPosts writes one card per post. A card is skipped when its file
// exists and is newer than since and the card style is unchanged; a zero
// since renders everything. One failing post does not stop the others; their
// errors are joined. Cards in og.dir that belong to no post in list are
// removed afterwards.
func (r *Renderer) RenderPosts(ctx context.Context, list []*posts.Post, since time.Time) (Result, error) {
	var res Result
	var errs []error
	siteName := r.cfg.Site.Title

	stamp, err := r.StyleFingerprint()
	if err != nil {
		return res, err
	}
	stampRel := path.Join(r.cfg.OG.Dir, StampFile)
	skippable := !r.Force && !since.IsZero()
	if skippable && r.readStamp(stampRel) != stamp {
		slog.Info("OG card style changed, re-rendering every post image", logfields.Path(stampRel))
		skippable = false
	}

	keep := sets.New[string]()
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rel := r.PostImagePath(p.Slug)
		targets := []string{rel}
		if r.cfg.OG.WriteSVG {
			targets = append(targets, path.Join(r.cfg.OG.Dir, p.Slug+".svg"))
		}
		for _, t := range targets {
			keep.Add(t)
		}

		if skippable && r.upToDate(targets, since) {
			slog.Debug("OG image up to date, skipping", logfields.Slug(p.Slug), logfields.Output(rel))
			res.Skipped++
			r.recorder.IncImageResult(metrics.ImageSkipped)
			continue
		}

		layout := r.style.Layout(PostCard(p, siteName))
		if err := r.write(ctx, rel, layout, WritePNG); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Slug, err))
			res.Failed++
			r.recorder.IncImageResult(metrics.ImageFailed)
			slog.Error("OG image failed", logfields.Slug(p.Slug), logfields.Output(rel), logfields.Error(err))
			continue
		}
		res.Written = append(res.Written, rel)
		if len(targets) > 1 {
			if err := r.write(ctx, targets[1], layout, WriteSVG); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Slug, err))
				res.Failed++
				r.recorder.IncImageResult(metrics.ImageFailed)
				continue
			}
			res.Written = append(res.Written, targets[1])
		}
		res.Rendered++
		r.recorder.IncImageResult(metrics.ImageRendered)
	}

	// A failed pass keeps the old stamp so the next build retries in full.
	if len(errs) == 0 {
		if err := r.writer.WriteFile(ctx, r.cfg.OutputPath(stampRel), []byte(stamp+"\n")); err != nil {
			errs = append(errs, fmt.Errorf("style stamp: %w", err))
		}
	}

	removed, err := r.prune(keep)
	res.Removed = removed
	if err != nil {
		errs = append(errs, err)
	}

	slog.Info("OG images rendered", logfields.Count(res.Rendered), slog.Int("skipped", res.Skipped), slog.Int("failed", res.Failed), slog.Int("removed", len(res.Removed)))
	return res, errors.Join(errs...)
}

// StyleFingerprint hashes everything besides the post itself that shapes a
// post card.
func (r *Renderer) StyleFingerprint() (string, error) {
	data, err := json.Marshal(struct {
		Style    Style  `json:"style"`
		SiteName string `json:"site_name"`
		WriteSVG bool   `json:"write_svg"`
	}{r.style, r.cfg.Site.Title, r.cfg.OG.WriteSVG})
	if err != nil {
		return "", fmt.Errorf("fingerprint card style: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (r *Renderer) readStamp(rel string) string {
	data, err := os.ReadFile(r.cfg.OutputPath(rel))
	if err != nil {
		return ""
	}
	return string(bytes.TrimSpace(data))
}

// prune deletes .png and .svg files directly under og.dir that are not in
// keep. Site images are never touched.
func (r *Renderer) prune(keep sets.Set[string]) ([]string, error) {
	if dir := path.Clean(r.cfg.OG.Dir); dir == "." || strings.HasPrefix(dir, "..") {
		return nil, nil
	}
	entries, err := os.ReadDir(r.cfg.OutputPath(r.cfg.OG.Dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.cfg.OG.Dir, err)
	}

	site := sets.New[string]()
	for _, f := range r.cfg.OG.SiteFormats {
		site.Add(path.Clean(r.cfg.OG.SiteImage + "." + string(f)))
	}

	var removed []string
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := path.Ext(e.Name()); ext != ".png" && ext != ".svg" {
			continue
		}
		rel := path.Join(r.cfg.OG.Dir, e.Name())
		if keep.Has(rel) || site.Has(rel) {
			continue
		}
		if err := os.Remove(r.cfg.OutputPath(rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove stale card %s: %w", rel, err))
			continue
		}
		slog.Info("Removed stale OG image", logfields.Output(rel))
		removed = append(removed, rel)
	}
	return removed, errors.Join(errs...)
}

// RenderSite writes the site-level card in every configured format. It is
// always regenerated; it depends on configuration, not on posts.
func (r *Renderer) RenderSite(ctx context.Context) (Result, error) {
	var res Result
	layout := r.style.Layout(SiteCard(r.cfg.Site))
	for _, f := range r.cfg.OG.SiteFormats {
		rel := r.cfg.OG.SiteImage + "." + string(f)
		enc := WritePNG
		if f == config.ImageFormatWebP {
			enc = WriteWebP
		}
		if err := r.write(ctx, rel, layout, enc); err != nil {
			res.Failed++
			r.recorder.IncImageResult(metrics.ImageFailed)
			return res, fmt.Errorf("site image %s: %w", rel, err)
		}
		res.Rendered++
		res.Written = append(res.Written, rel)
		r.recorder.IncImageResult(metrics.ImageRendered)
		slog.Debug("Site OG image written", logfields.Output(rel), logfields.Format(string(f)))
	}
	return res, nil
}

func (r *Renderer) write(ctx context.Context, rel string, l Layout, enc func(io.Writer, Layout) error) error {
	var size int
	err := r.writer.WriteWith(ctx, r.cfg.OutputPath(rel), func(w io.Writer) error {
		cw := &countingWriter{w: w}
		err := enc(cw, l)
		size = cw.n
		return err
	})
	if err == nil {
		r.recorder.ObserveArtifactSize("og_image", size)
	}
	return err
}

func (r *Renderer) upToDate(rels []string, since time.Time) bool {
	if since.IsZero() {
		return false
	}
	for _, rel := range rels {
		info, err := os.Stat(r.cfg.OutputPath(rel))
		if err != nil || !info.ModTime().After(since) {
			return false
		}
	}
	return true
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
