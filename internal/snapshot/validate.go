package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/folio/internal/content"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/posts"
	"git.home.luguber.info/inful/folio/internal/util/sets"
)

// ErrSyncMismatch means posts.json does not describe the on-disk content set.
var ErrSyncMismatch = errors.New("snapshot out of sync with content")

// SyncResult is the outcome of comparing a snapshot with the content directory.
type SyncResult struct {
	// Expected is the number of public documents on disk.
	Expected int
	// Claimed is the snapshot's totalPosts.
	Claimed int
	// Listed is the number of entries in the snapshot's posts array.
	Listed int
	// Missing are on-disk slugs absent from the snapshot.
	Missing []string
	// Extra are snapshot slugs with no document on disk.
	Extra []string
	// Duplicates are slugs listed more than once in the snapshot.
	Duplicates []string
	// UnsafeSlugs are slugs that are not lowercase hyphenated ASCII.
	UnsafeSlugs []string
	// Stale are slugs whose document changed since the snapshot was written.
	Stale []string
}

// InSync reports whether the snapshot matches the content set exactly.
// Unsafe and stale slugs are warnings and do not affect the result.
func (r *SyncResult) InSync() bool {
	return r.Expected == r.Claimed && r.Claimed == r.Listed &&
		len(r.Missing) == 0 && len(r.Extra) == 0 && len(r.Duplicates) == 0
}

// Err returns nil when in sync, otherwise an error wrapping ErrSyncMismatch
// that lists every discrepancy.
func (r *SyncResult) Err() error {
	if r.InSync() {
		return nil
	}
	var parts []string
	if r.Claimed != r.Expected {
		parts = append(parts, fmt.Sprintf("totalPosts is %d but %d documents are on disk", r.Claimed, r.Expected))
	}
	if r.Listed != r.Claimed {
		parts = append(parts, fmt.Sprintf("posts lists %d entries but totalPosts is %d", r.Listed, r.Claimed))
	}
	if len(r.Missing) > 0 {
		parts = append(parts, "missing from snapshot: "+strings.Join(r.Missing, ", "))
	}
	if len(r.Extra) > 0 {
		parts = append(parts, "not on disk: "+strings.Join(r.Extra, ", "))
	}
	if len(r.Duplicates) > 0 {
		parts = append(parts, "listed more than once: "+strings.Join(r.Duplicates, ", "))
	}
	return fmt.Errorf("%w: %s", ErrSyncMismatch, strings.Join(parts, "; "))
}

// Validate compares snap with the public posts loaded from disk. Unsafe slugs
// and fingerprint drift are logged as warnings.
func Validate(snap *Snapshot, onDisk []*posts.Post) *SyncResult {
	r := &SyncResult{
		Expected: len(onDisk),
		Claimed:  snap.TotalPosts,
		Listed:   len(snap.Posts),
	}

	disk := make(map[string]*posts.Post, len(onDisk))
	for _, p := range onDisk {
		disk[p.Slug] = p
	}

	listed := sets.New[string]()
	dups := sets.New[string]()
	for _, p := range snap.Posts {
		if listed.Has(p.Slug) {
			dups.Add(p.Slug)
		}
		listed.Add(p.Slug)

		if !content.IsURLSafe(p.Slug) {
			r.UnsafeSlugs = append(r.UnsafeSlugs, p.Slug)
			slog.Warn("Slug is not URL-safe", logfields.Slug(p.Slug))
		}
		if d, ok := disk[p.Slug]; ok && p.Fingerprint != "" && d.Fingerprint != p.Fingerprint {
			r.Stale = append(r.Stale, p.Slug)
			slog.Warn("Post changed since the snapshot was written", logfields.Slug(p.Slug), logfields.Path(d.Source))
		}
	}

	diskSlugs := sets.New[string]()
	for slug := range disk {
		diskSlugs.Add(slug)
	}
	r.Missing = sets.Sorted(diskSlugs.Difference(listed))
	r.Extra = sets.Sorted(listed.Difference(diskSlugs))
	r.Duplicates = sets.Sorted(dups)
	return r
}
