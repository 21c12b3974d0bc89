package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/posts"
	"git.home.luguber.info/inful/folio/internal/snapshot"
)

var (
	// ErrNoPosts is the warning recorded when the content directory yields nothing.
	ErrNoPosts = errors.New("no posts found")
	// ErrSnapshotMissing marks a generator run without a prior metadata run.
	ErrSnapshotMissing = errors.New("snapshot not found")
)

// NewLoader builds the post loader described by cfg. When git_lastmod is set
// and the content directory is inside a repository, dateModified falls back
// to the last commit touching each document.
func NewLoader(cfg *config.Config, now func() time.Time) *posts.Loader {
	dir := cfg.ContentDir()
	opts := posts.Options{
		WordsPerMinute:   cfg.Content.WordsPerMinute,
		DefaultAuthor:    cfg.Site.Owner.Name,
		PublishedDefault: cfg.Content.PublishedDefault,
		Now:              now,
	}
	if cfg.Content.GitLastmod {
		gd, err := posts.OpenGitDates(dir)
		if err != nil {
			slog.Warn("Git dates unavailable; using front matter only", logfields.Path(dir), logfields.Error(err))
		} else {
			opts.LastModified = gd.LastModified
		}
	}
	l := posts.NewLoader(dir, opts)
	if len(cfg.Content.Extensions) > 0 {
		l.Extensions = cfg.Content.Extensions
	}
	return l
}

func stageLoadContent(ctx context.Context, bs *BuildState) error {
	list, err := NewLoader(bs.Config, bs.Now).Load(ctx)
	if err != nil {
		return err
	}
	bs.Posts = list
	bs.Repository = posts.NewRepository(list, posts.WithDrafts(bs.Config.Content.IncludeDrafts))
	bs.Report.SetPosts(len(list), bs.Repository.Len())
	bs.Recorder.SetPosts(len(list), bs.Repository.Len())
	slog.Info("Loaded posts", logfields.Count(len(list)), slog.Int("public", bs.Repository.Len()))
	if len(list) == 0 {
		return NewWarnStageError(StageLoadContent, fmt.Errorf("%w in %s", ErrNoPosts, bs.Config.ContentDir()))
	}
	return nil
}

func stageWriteSnapshot(ctx context.Context, bs *BuildState) error {
	snap := snapshot.New(bs.Repository.ListAll(), bs.Now(), bs.Config.Content.IncludeDrafts)
	path := bs.Config.SnapshotPath()

	wrote, err := snapshot.WriteIfChanged(ctx, bs.Writer, path, snap)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if wrote {
		bs.Report.MarkSnapshotWritten()
		bs.Report.AddArtifact(bs.Config.Output.Snapshot)
		slog.Info("Wrote snapshot", logfields.Output(path), logfields.Count(snap.TotalPosts))
	} else {
		slog.Info("Snapshot unchanged", logfields.Output(path), logfields.Count(snap.TotalPosts))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}
	bs.Snapshot = snap
	bs.SnapshotModTime = info.ModTime()
	return nil
}

func stageReadSnapshot(_ context.Context, bs *BuildState) error {
	path := bs.Config.SnapshotPath()
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s (run the metadata command first)", ErrSnapshotMissing, path)
	}
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}
	snap, err := snapshot.Read(path)
	if err != nil {
		return err
	}
	bs.Snapshot = snap
	bs.SnapshotModTime = info.ModTime()
	bs.Report.SetPosts(snap.TotalPosts, len(snap.Posts))
	slog.Debug("Read snapshot", logfields.Path(path), logfields.Count(len(snap.Posts)))
	return nil
}
