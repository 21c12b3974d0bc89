package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/snapshot"
	helpers "git.home.luguber.info/inful/folio/internal/testutil/testutils"
)

var fixedNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

const testConfigYAML = `
version: "1"
site:
  title: "Jane Doe"
  description: "Notes on Go"
  base_url: "https://example.com"
  owner:
    name: "Jane Doe"
`

func newTestBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	cfg, err := config.Parse([]byte(testConfigYAML))
	require.NoError(t, err)
	root := t.TempDir()
	cfg = cfg.WithBaseDir(root)
	return NewBuilder(cfg, WithClock(func() time.Time { return fixedNow })), root
}

func writeThreePosts(t *testing.T, b *Builder) {
	t.Helper()
	dir := b.Config().ContentDir()
	helpers.WritePost(t, dir, "first.md", helpers.PostFixture{Title: "First", Date: "2024-01-01", Tags: []string{"go"}, Published: true, Body: "# First\n\nHello there.\n"})
	helpers.WritePost(t, dir, "second.md", helpers.PostFixture{Title: "Second", Date: "2024-02-01", Tags: []string{"go", "seo"}, Published: true, Body: "Body text.\n"})
	helpers.WritePost(t, dir, "third.md", helpers.PostFixture{Title: "Third & <last>", Date: "2024-03-01", Published: true, Excerpt: "The <em>third</em> one", Body: "More words here.\n"})
}

func TestBuildEndToEnd(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)

	report, err := b.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 3, report.Posts)
	assert.Equal(t, 3, report.Published)
	assert.True(t, report.SnapshotWritten)

	out := b.Config().OutputDir()
	helpers.NewFileAssertions(t, out).
		AssertFileExists("posts.json").
		AssertFileExists("rss.xml").
		AssertFileExists("sitemap.xml").
		AssertFileExists("robots.txt").
		AssertFileExists("og-image.png").
		AssertFileExists("og-image.webp").
		AssertFileExists("build-report.json").
		AssertCount("rss.xml", "<item>", 3).
		AssertCount("sitemap.xml", "<url>", 5).
		AssertFileContains("robots.txt", "Sitemap: https://example.com/sitemap.xml").
		AssertFileContains("rss.xml", "Third &amp; &lt;last&gt;").
		AssertMinFileCount("og/blog", 3)

	rss, err := os.ReadFile(filepath.Join(out, "rss.xml"))
	require.NoError(t, err)
	third := strings.Index(string(rss), "/blog/third<")
	second := strings.Index(string(rss), "/blog/second<")
	first := strings.Index(string(rss), "/blog/first<")
	assert.True(t, third < second && second < first, "items must be newest first")

	snap, err := snapshot.Read(filepath.Join(out, "posts.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, snap.Slugs())
	assert.Equal(t, 3, snap.TotalPosts)
	assert.True(t, snap.GeneratedAt.Equal(fixedNow))

	var persisted BuildReportSerializable
	data, err := os.ReadFile(filepath.Join(out, "build-report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, "success", persisted.Outcome)
	assert.Equal(t, report.ID, persisted.ID)
	assert.Contains(t, persisted.Artifacts, "og/blog/first.png")
	assert.Contains(t, persisted.StageDurations, string(StageGenerateOG))
}

func TestBuildIsIdempotent(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)
	ctx := context.Background()
	out := b.Config().OutputDir()
	files := []string{"posts.json", "rss.xml", "sitemap.xml", "robots.txt", "og/blog/first.png", "og-image.png"}

	_, err := b.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	before := readAll(t, out, files)

	report, err := b.Build(ctx, BuildOptions{ForceImages: true})
	require.NoError(t, err)
	assert.False(t, report.SnapshotWritten, "unchanged posts must not rewrite the snapshot")
	assert.Equal(t, before, readAll(t, out, files))
}

func TestBuildSkipsImagesNewerThanSnapshot(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)
	ctx := context.Background()

	_, err := b.Build(ctx, BuildOptions{})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(b.Config().SnapshotPath(), past, past))

	report, err := b.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.ImagesSkipped)
	assert.Equal(t, 2, report.ImagesRendered, "site images are always rendered")
}

func TestIncrementalImagesMatchCleanBuildAfterConfigChange(t *testing.T) {
	b, root := newTestBuilder(t)
	writeThreePosts(t, b)
	ctx := context.Background()
	_, err := b.Build(ctx, BuildOptions{})
	require.NoError(t, err)

	renamed, err := config.Parse([]byte(strings.Replace(testConfigYAML, `title: "Jane Doe"`, `title: "Renamed Site"`, 1)))
	require.NoError(t, err)
	incremental := NewBuilder(renamed.WithBaseDir(root), WithClock(func() time.Time { return fixedNow }))
	report, err := incremental.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	assert.False(t, report.SnapshotWritten)
	assert.Equal(t, 0, report.ImagesSkipped)

	scratchRoot := t.TempDir()
	writeThreePosts(t, NewBuilder(renamed.WithBaseDir(scratchRoot)))
	scratch := NewBuilder(renamed.WithBaseDir(scratchRoot), WithClock(func() time.Time { return fixedNow }))
	_, err = scratch.Build(ctx, BuildOptions{})
	require.NoError(t, err)

	images := []string{"og/blog/first.png", "og/blog/second.png", "og/blog/third.png", "og-image.png"}
	assert.Equal(t, readAll(t, scratch.Config().OutputDir(), images), readAll(t, incremental.Config().OutputDir(), images))
}

func TestBuildRemovesCardsOfUnpublishedPosts(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)
	ctx := context.Background()
	_, err := b.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	card := filepath.Join(b.Config().OutputDir(), "og", "blog", "third.png")
	require.FileExists(t, card)

	helpers.WritePost(t, b.Config().ContentDir(), "third.md", helpers.PostFixture{Title: "Third", Date: "2024-03-01", Published: false, Body: "Hidden.\n"})
	report, err := b.Build(ctx, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Published)
	assert.NoFileExists(t, card)
	assert.FileExists(t, filepath.Join(b.Config().OutputDir(), "og", "blog", "first.png"))
}

func TestGeneratorFailureDoesNotStopSiblings(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)
	out := b.Config().OutputDir()
	// A non-empty directory where rss.xml belongs makes the rename fail.
	helpers.WriteFile(t, filepath.Join(out, "rss.xml", "blocker"), "x")

	for _, parallel := range []bool{true, false} {
		b.cfg.Build.Parallel = parallel
		report, err := b.Build(context.Background(), BuildOptions{})
		require.Error(t, err)
		assert.Equal(t, ferrors.CategoryRender, ferrors.GetCategory(err))
		assert.Equal(t, OutcomeFailed, report.Outcome)
		assert.Equal(t, StageErrorFatal, report.StageErrorKinds[StageGenerateRSS])
		assert.Equal(t, 1, report.StageCounts[StageGenerateSitemap].Success)

		helpers.NewFileAssertions(t, out).
			AssertFileExists("sitemap.xml").
			AssertFileExists("robots.txt").
			AssertFileExists("og/blog/first.png").
			AssertFileContains("build-report.json", `"outcome": "failed"`)
	}
}

func TestBuildWithoutContentWarns(t *testing.T) {
	b, _ := newTestBuilder(t)

	report, err := b.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.Equal(t, StageErrorWarning, report.StageErrorKinds[StageLoadContent])

	helpers.NewFileAssertions(t, b.Config().OutputDir()).
		AssertCount("rss.xml", "<item>", 0).
		AssertCount("sitemap.xml", "<url>", 2).
		AssertFileContains("posts.json", `"totalPosts": 0`)
}

func TestBuildFailsOnDuplicateSlug(t *testing.T) {
	b, _ := newTestBuilder(t)
	dir := b.Config().ContentDir()
	helpers.WritePost(t, dir, "hello.md", helpers.PostFixture{Title: "A", Date: "2024-01-01", Published: true})
	helpers.WritePost(t, dir, "hello/index.md", helpers.PostFixture{Title: "B", Date: "2024-01-02", Published: true})

	report, err := b.Build(context.Background(), BuildOptions{})
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryContent, ferrors.GetCategory(err))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.NoFileExists(t, b.Config().SnapshotPath())
	assert.NoFileExists(t, filepath.Join(b.Config().OutputDir(), "rss.xml"))
}

func TestGenerateReadsSnapshot(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)
	ctx := context.Background()

	_, err := b.Generate(ctx, false, TargetRSS)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotMissing)
	assert.Equal(t, ferrors.CategoryNotFound, ferrors.GetCategory(err))

	_, err = b.Metadata(ctx)
	require.NoError(t, err)
	out := b.Config().OutputDir()
	assert.NoFileExists(t, filepath.Join(out, "rss.xml"))

	report, err := b.Generate(ctx, false, TargetRSS)
	require.NoError(t, err)
	assert.Equal(t, []string{"rss.xml"}, report.Artifacts)
	helpers.NewFileAssertions(t, out).AssertCount("rss.xml", "<item>", 3)
	assert.NoFileExists(t, filepath.Join(out, "sitemap.xml"))
}

func TestGenerateRobotsWithoutSnapshot(t *testing.T) {
	b, _ := newTestBuilder(t)
	ctx := context.Background()

	report, err := b.Generate(ctx, false, TargetRobots)
	require.NoError(t, err)
	assert.Equal(t, []string{"robots.txt"}, report.Artifacts)

	out := b.Config().OutputDir()
	helpers.NewFileAssertions(t, out).AssertFileContains("robots.txt", "Sitemap: https://example.com/sitemap.xml")
	assert.NoFileExists(t, filepath.Join(out, "posts.json"))

	_, err = b.Generate(ctx, false, TargetRobots, TargetRSS)
	assert.ErrorIs(t, err, ErrSnapshotMissing)
}

func TestValidate(t *testing.T) {
	b, _ := newTestBuilder(t)
	ctx := context.Background()

	_, err := b.Validate(ctx)
	require.Error(t, err, "missing content directory")
	assert.Equal(t, ferrors.CategoryValidation, ferrors.GetCategory(err))

	writeThreePosts(t, b)
	_, err = b.Validate(ctx)
	require.Error(t, err, "missing snapshot")

	_, err = b.Metadata(ctx)
	require.NoError(t, err)
	res, err := b.Validate(ctx)
	require.NoError(t, err)
	assert.True(t, res.InSync())

	helpers.WritePost(t, b.Config().ContentDir(), "fourth.md", helpers.PostFixture{Title: "Fourth", Date: "2024-04-01", Published: true})
	res, err = b.Validate(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, snapshot.ErrSyncMismatch)
	assert.Equal(t, []string{"fourth"}, res.Missing)

	helpers.WritePost(t, b.Config().ContentDir(), "draft.md", helpers.PostFixture{Title: "Draft", Date: "2024-04-02"})
	_, err = b.Metadata(ctx)
	require.NoError(t, err)
	res, err = b.Validate(ctx)
	require.NoError(t, err, "drafts are not part of the public set")
	assert.Equal(t, 4, res.Expected)
}

func TestRepositoryLookup(t *testing.T) {
	b, _ := newTestBuilder(t)
	writeThreePosts(t, b)

	repo, err := b.Repository(context.Background())
	require.NoError(t, err)
	p, ok := repo.GetBySlug("second")
	require.True(t, ok)
	assert.Equal(t, "Second", p.Title)
	_, ok = repo.GetBySlug("Second")
	assert.False(t, ok)
}

func TestPipelineCanceled(t *testing.T) {
	b, _ := newTestBuilder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := b.Metadata(ctx)
	require.Error(t, err)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
}

func readAll(t *testing.T, root string, rels []string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte, len(rels))
	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		out[rel] = data
	}
	return out
}
