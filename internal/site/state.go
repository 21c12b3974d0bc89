package site

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/fsutil"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/posts"
	"git.home.luguber.info/inful/folio/internal/snapshot"
)

// BuildState carries data between stages. Sequential stages fill it in;
// generators only read it and report through Report.
type BuildState struct {
	Config   *config.Config
	Writer   *fsutil.Writer
	Recorder metrics.Recorder
	Report   *BuildReport
	Now      func() time.Time

	// ForceImages disables the OG image modification-time skip.
	ForceImages bool

	// Posts holds every loaded document, drafts included.
	Posts      []*posts.Post
	Repository *posts.Repository
	Snapshot   *snapshot.Snapshot
	// SnapshotModTime is the snapshot file's modification time after the
	// snapshot stage; OG images newer than it are up to date.
	SnapshotModTime time.Time
}

// writeArtifact atomically writes an output-relative artifact and records it.
func (bs *BuildState) writeArtifact(ctx context.Context, artifact, rel string, data []byte) error {
	target := bs.Config.OutputPath(rel)
	if err := bs.Writer.WriteFile(ctx, target, data); err != nil {
		slog.Error("Failed to write artifact", logfields.Output(target), logfields.Error(err))
		return err
	}
	bs.Report.AddArtifact(rel)
	bs.Recorder.ObserveArtifactSize(artifact, len(data))
	slog.Info("Wrote "+artifact, logfields.Output(target), slog.Int("bytes", len(data)))
	return nil
}
