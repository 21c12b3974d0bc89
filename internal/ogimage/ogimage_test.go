package ogimage

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/fsutil"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/posts"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Site.Title = "Jane Doe"
	cfg.Site.BaseURL = "https://example.com"
	cfg.Site.Description = "Notes on Go & infrastructure"
	return cfg.WithBaseDir(t.TempDir())
}

func testPost(slug, title string) *posts.Post {
	return &posts.Post{
		Slug:        slug,
		Title:       title,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ReadingTime: 4,
		Tags:        []string{"go", "seo"},
		Published:   true,
	}
}

func testStyle(t *testing.T) Style {
	t.Helper()
	p, err := PaletteFromConfig(config.Default().OG.Colors)
	require.NoError(t, err)
	return Style{Palette: p, MaxLineChars: 28, MaxLines: 3}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0f172a")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0f), c.R)
	assert.Equal(t, uint8(0x17), c.G)
	assert.Equal(t, uint8(0x2a), c.B)
	assert.Equal(t, uint8(0xff), c.A)

	short, err := ParseHex("#fff")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), short.G)

	_, err = ParseHex("#12345")
	require.Error(t, err)
	_, err = ParseHex("#gggggg")
	require.Error(t, err)
}

func TestPostCard(t *testing.T) {
	p := testPost("hello", "Hello")
	p.Tags = []string{"a", "b", "c", "d", "e"}
	c := PostCard(p, "Jane Doe")
	assert.Equal(t, "Jane Doe", c.Kicker)
	assert.Equal(t, "March 1, 2024 · 4 min read", c.Meta)
	assert.Len(t, c.Tags, maxTags)
}

func TestLayoutLimitsTitleLines(t *testing.T) {
	style := testStyle(t)
	long := strings.Repeat("incredibly verbose title words ", 10)
	l := style.Layout(Card{Title: long})

	var titleLines []Text
	for _, tx := range l.Texts {
		if tx.Size == titleSize {
			titleLines = append(titleLines, tx)
		}
	}
	require.Len(t, titleLines, 3)
	assert.True(t, strings.HasSuffix(titleLines[2].Value, Ellipsis))
	assert.Equal(t, Width, l.Width)
	assert.Equal(t, Height, l.Height)
}

func TestSVGEscapesText(t *testing.T) {
	l := testStyle(t).Layout(Card{Title: `Tags <b> & "quotes"`})
	out, err := SVG(l)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `width="1200" height="630"`)
	assert.Contains(t, s, "&lt;b&gt; &amp;")
	assert.NotContains(t, s, "<b>")
}

func TestPNGIsDeterministic(t *testing.T) {
	l := testStyle(t).Layout(PostCard(testPost("hello", "Deterministic output for equal input"), "Jane Doe"))

	first, err := PNG(l)
	require.NoError(t, err)
	second, err := PNG(l)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "PNG bytes differ between runs")

	img, err := png.Decode(bytes.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRenderPostsSkipsFreshImages(t *testing.T) {
	cfg := testConfig(t)
	rec := &countingRecorder{}
	r, err := NewRenderer(cfg, fsutil.NewWriter(), rec)
	require.NoError(t, err)
	ctx := context.Background()
	list := []*posts.Post{testPost("a", "First"), testPost("b", "Second")}

	res, err := r.RenderPosts(ctx, list, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rendered)
	assert.Equal(t, []string{"og/blog/a.png", "og/blog/b.png"}, res.Written)
	first, err := os.ReadFile(filepath.Join(cfg.OutputDir(), "og", "blog", "a.png"))
	require.NoError(t, err)

	res, err = r.RenderPosts(ctx, list, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rendered)
	assert.Equal(t, 2, res.Skipped)

	res, err = r.RenderPosts(ctx, list, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rendered)
	again, err := os.ReadFile(filepath.Join(cfg.OutputDir(), "og", "blog", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, first, again)

	r.Force = true
	res, err = r.RenderPosts(ctx, list, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rendered)

	assert.Equal(t, 6, rec.rendered)
	assert.Equal(t, 2, rec.skipped)
}

func TestRenderPostsRerendersWhenStyleChanges(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	list := []*posts.Post{testPost("a", "First"), testPost("b", "Second")}

	r, err := NewRenderer(cfg, nil, nil)
	require.NoError(t, err)
	_, err = r.RenderPosts(ctx, list, time.Time{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir(), "og", "blog", StampFile))

	res, err := r.RenderPosts(ctx, list, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"site title", func(c *config.Config) { c.Site.Title = "Renamed Site" }},
		{"colors", func(c *config.Config) { c.OG.Colors.Accent = "#ff0000" }},
		{"line width", func(c *config.Config) { c.OG.MaxLineChars = 12 }},
		{"line count", func(c *config.Config) { c.OG.MaxLines = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mutate(cfg)
			r, err := NewRenderer(cfg, nil, nil)
			require.NoError(t, err)

			res, err := r.RenderPosts(ctx, list, time.Now().Add(-time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 2, res.Rendered)
			assert.Equal(t, 0, res.Skipped)

			scratch := cfg.WithBaseDir(t.TempDir())
			sr, err := NewRenderer(scratch, nil, nil)
			require.NoError(t, err)
			_, err = sr.RenderPosts(ctx, list, time.Time{})
			require.NoError(t, err)
			for _, name := range []string{"a.png", "b.png", StampFile} {
				incremental, err := os.ReadFile(filepath.Join(cfg.OutputDir(), "og", "blog", name))
				require.NoError(t, err)
				fresh, err := os.ReadFile(filepath.Join(scratch.OutputDir(), "og", "blog", name))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(incremental, fresh), "%s differs from a clean render", name)
			}

			res, err = r.RenderPosts(ctx, list, time.Now().Add(-time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 2, res.Skipped, "the new stamp makes the next pass incremental again")
		})
	}
}

func TestRenderPostsRemovesStaleCards(t *testing.T) {
	cfg := testConfig(t)
	cfg.OG.WriteSVG = true
	ctx := context.Background()
	dir := filepath.Join(cfg.OutputDir(), "og", "blog")

	r, err := NewRenderer(cfg, nil, nil)
	require.NoError(t, err)
	_, err = r.RenderPosts(ctx, []*posts.Post{testPost("a", "First"), testPost("b", "Second"), testPost("c", "Third")}, time.Time{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o600))

	res, err := r.RenderPosts(ctx, []*posts.Post{testPost("a", "First"), testPost("b", "Second")}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"og/blog/c.png", "og/blog/c.svg"}, res.Removed)
	assert.NoFileExists(t, filepath.Join(dir, "c.png"))
	assert.NoFileExists(t, filepath.Join(dir, "c.svg"))
	assert.FileExists(t, filepath.Join(dir, "a.png"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))

	cfg.OG.WriteSVG = false
	r, err = NewRenderer(cfg, nil, nil)
	require.NoError(t, err)
	res, err = r.RenderPosts(ctx, []*posts.Post{testPost("a", "First"), testPost("b", "Second")}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"og/blog/a.svg", "og/blog/b.svg"}, res.Removed)
	assert.FileExists(t, filepath.Join(dir, "b.png"))
}

func TestRenderPostsWritesSVG(t *testing.T) {
	cfg := testConfig(t)
	cfg.OG.WriteSVG = true
	r, err := NewRenderer(cfg, nil, nil)
	require.NoError(t, err)

	res, err := r.RenderPosts(context.Background(), []*posts.Post{testPost("a", "First")}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"og/blog/a.png", "og/blog/a.svg"}, res.Written)
	assert.FileExists(t, filepath.Join(cfg.OutputDir(), "og", "blog", "a.svg"))
}

func TestRenderSiteWritesEveryFormat(t *testing.T) {
	cfg := testConfig(t)
	r, err := NewRenderer(cfg, nil, nil)
	require.NoError(t, err)

	res, err := r.RenderSite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"og-image.png", "og-image.webp"}, res.Written)

	webp, err := os.ReadFile(filepath.Join(cfg.OutputDir(), "og-image.webp"))
	require.NoError(t, err)
	require.Greater(t, len(webp), 12)
	assert.Equal(t, "RIFF", string(webp[:4]))
	assert.Equal(t, "WEBP", string(webp[8:12]))
}

func TestNewRendererRejectsBadPalette(t *testing.T) {
	cfg := testConfig(t)
	cfg.OG.Colors.Accent = "blue"
	_, err := NewRenderer(cfg, nil, nil)
	require.Error(t, err)
}

type countingRecorder struct {
	metrics.NoopRecorder
	rendered, skipped int
}

func (c *countingRecorder) IncImageResult(r metrics.ImageResultLabel) {
	switch r {
	case metrics.ImageRendered:
		c.rendered++
	case metrics.ImageSkipped:
		c.skipped++
	}
}
