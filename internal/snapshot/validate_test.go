package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/posts"
)

func fiveOnDisk() []*posts.Post {
	return []*posts.Post{
		mkPost("one", true), mkPost("two", true), mkPost("three", true),
		mkPost("four", true), mkPost("five", true),
	}
}

func TestValidateInSync(t *testing.T) {
	disk := fiveOnDisk()
	r := Validate(New(disk, time.Now(), false), disk)
	assert.True(t, r.InSync())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.UnsafeSlugs)
	assert.Empty(t, r.Stale)
}

func TestValidateDetectsCountMismatch(t *testing.T) {
	disk := fiveOnDisk()
	snap := New(disk[:4], time.Now(), false)
	require.Equal(t, 4, snap.TotalPosts)

	r := Validate(snap, disk)
	assert.False(t, r.InSync())
	err := r.Err()
	require.ErrorIs(t, err, ErrSyncMismatch)
	assert.Contains(t, err.Error(), "totalPosts is 4 but 5 documents are on disk")
	assert.Equal(t, []string{"five"}, r.Missing)
}

func TestValidateDetectsUnknownSlug(t *testing.T) {
	disk := fiveOnDisk()
	listed := append(append([]*posts.Post{}, disk[:4]...), mkPost("ghost", true))
	snap := New(listed, time.Now(), false)
	require.Equal(t, 5, snap.TotalPosts)

	r := Validate(snap, disk)
	require.ErrorIs(t, r.Err(), ErrSyncMismatch)
	assert.Equal(t, []string{"ghost"}, r.Extra)
	assert.Equal(t, []string{"five"}, r.Missing)
}

func TestValidateDetectsTamperedTotal(t *testing.T) {
	disk := fiveOnDisk()
	snap := New(disk, time.Now(), false)
	snap.TotalPosts = 6

	err := Validate(snap, disk).Err()
	require.ErrorIs(t, err, ErrSyncMismatch)
	assert.Contains(t, err.Error(), "posts lists 5 entries but totalPosts is 6")
}

func TestValidateDetectsDuplicates(t *testing.T) {
	disk := fiveOnDisk()
	snap := New(append(append([]*posts.Post{}, disk...), mkPost("one", true)), time.Now(), false)
	snap.TotalPosts = 5

	r := Validate(snap, disk)
	require.ErrorIs(t, r.Err(), ErrSyncMismatch)
	assert.Equal(t, []string{"one"}, r.Duplicates)
}

func TestValidateWarningsAreNotFatal(t *testing.T) {
	disk := []*posts.Post{mkPost("Odd_Slug", true), mkPost("fine", true)}
	snapPosts := []*posts.Post{mkPost("Odd_Slug", true), mkPost("fine", true)}
	snapPosts[1].Fingerprint = "older"

	r := Validate(New(snapPosts, time.Now(), false), disk)
	assert.NoError(t, r.Err())
	assert.Equal(t, []string{"Odd_Slug"}, r.UnsafeSlugs)
	assert.Equal(t, []string{"fine"}, r.Stale)
}
