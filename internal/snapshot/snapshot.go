// Package snapshot materializes the post repository into posts.json, the
// single input of every downstream generator.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"git.home.luguber.info/inful/folio/internal/fsutil"
	"git.home.luguber.info/inful/folio/internal/posts"
)

// Snapshot is the on-disk form of the public post set.
type Snapshot struct {
	Posts       []*posts.Post `json:"posts"`
	GeneratedAt time.Time     `json:"generatedAt"`
	TotalPosts  int           `json:"totalPosts"`
}

// New builds a snapshot from public posts. Posts that are not published are
// dropped unless includeDrafts is set, so TotalPosts always equals len(Posts).
func New(list []*posts.Post, generatedAt time.Time, includeDrafts bool) *Snapshot {
	out := make([]*posts.Post, 0, len(list))
	for _, p := range list {
		if p.IsPublic(includeDrafts) {
			out = append(out, p)
		}
	}
	return &Snapshot{Posts: out, GeneratedAt: generatedAt.UTC(), TotalPosts: len(out)}
}

// Encode renders the snapshot as indented JSON with a trailing newline.
// Output for equal posts is byte-identical apart from generatedAt.
func (s *Snapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// PostsJSON returns the encoded posts array alone, for equality checks that
// must ignore generatedAt.
func (s *Snapshot) PostsJSON() ([]byte, error) {
	return json.Marshal(s.Posts)
}

// Write atomically replaces path with the encoded snapshot.
func Write(ctx context.Context, w *fsutil.Writer, path string, s *Snapshot) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	return w.WriteFile(ctx, path, data)
}

// WriteIfChanged writes s unless the snapshot already at path lists the same
// posts. Leaving an unchanged file alone keeps its modification time, which
// image rendering compares against to skip up-to-date cards.
func WriteIfChanged(ctx context.Context, w *fsutil.Writer, path string, s *Snapshot) (bool, error) {
	if prev, err := Read(path); err == nil {
		same, err := SamePosts(prev, s)
		if err != nil {
			return false, err
		}
		if same {
			return false, nil
		}
	}
	if err := Write(ctx, w, path, s); err != nil {
		return false, err
	}
	return true, nil
}

// SamePosts reports whether a and b encode identical posts arrays.
func SamePosts(a, b *Snapshot) (bool, error) {
	aj, err := a.PostsJSON()
	if err != nil {
		return false, err
	}
	bj, err := b.PostsJSON()
	if err != nil {
		return false, err
	}
	return bytes.Equal(aj, bj), nil
}

// Read loads a snapshot written by Write.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- configured output path
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if s.Posts == nil {
		s.Posts = []*posts.Post{}
	}
	return &s, nil
}

// Slugs lists the slugs of the snapshot in order.
func (s *Snapshot) Slugs() []string {
	out := make([]string, 0, len(s.Posts))
	for _, p := range s.Posts {
		out = append(out, p.Slug)
	}
	return out
}
