package posts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func post(slug, date string, tags ...string) *Post {
	if tags == nil {
		tags = []string{}
	}
	return &Post{Slug: slug, Title: slug, Date: day(date), Tags: tags, Published: true}
}

func slugsOf(ps []*Post) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Slug)
	}
	return out
}

func TestListAllSortsNewestFirst(t *testing.T) {
	r := NewRepository([]*Post{
		post("jan-2025", "2025-01-01"),
		post("jun-2024", "2024-06-01"),
		post("jun-2025", "2025-06-01"),
	})
	assert.Equal(t, []string{"jun-2025", "jan-2025", "jun-2024"}, slugsOf(r.ListAll()))
}

func TestListAllKeepsInputOrderOnTies(t *testing.T) {
	r := NewRepository([]*Post{
		post("first", "2024-01-01"),
		post("second", "2024-01-01"),
		post("newer", "2024-02-01"),
		post("third", "2024-01-01"),
	})
	assert.Equal(t, []string{"newer", "first", "second", "third"}, slugsOf(r.ListAll()))
}

func TestListAllHidesUnpublished(t *testing.T) {
	draft := post("draft", "2024-03-01")
	draft.Published = false
	posts := []*Post{post("live", "2024-01-01"), draft}

	r := NewRepository(posts)
	assert.Equal(t, []string{"live"}, slugsOf(r.ListAll()))
	assert.Equal(t, []string{"draft", "live"}, slugsOf(r.All()))
	assert.Equal(t, 1, r.Len())
	_, ok := r.GetBySlug("draft")
	assert.False(t, ok)

	withDrafts := NewRepository(posts, WithDrafts(true))
	assert.Equal(t, []string{"draft", "live"}, slugsOf(withDrafts.ListAll()))
}

func TestListAllReturnsCopy(t *testing.T) {
	r := NewRepository([]*Post{post("a", "2024-01-01"), post("b", "2024-01-02")})
	got := r.ListAll()
	got[0] = nil
	assert.NotNil(t, r.ListAll()[0])
}

func TestGetBySlugIsExact(t *testing.T) {
	r := NewRepository([]*Post{post("hello-world", "2024-01-01")})

	p, ok := r.GetBySlug("hello-world")
	require.True(t, ok)
	assert.Equal(t, "hello-world", p.Slug)

	for _, miss := range []string{"Hello-World", "hello", "hello-world/", ""} {
		_, ok := r.GetBySlug(miss)
		assert.False(t, ok, miss)
	}
}

func TestRelatedPostsRanking(t *testing.T) {
	p := post("subject", "2024-05-01", "go", "telegram")
	both := post("both", "2024-01-01", "telegram", "go")
	goOnly := post("go-only", "2024-04-01", "go")
	none := post("none", "2024-04-15", "rust")
	r := NewRepository([]*Post{p, none, goOnly, both})

	assert.Equal(t, []string{"both", "go-only"}, slugsOf(r.RelatedPosts(p, 3)))
	assert.Equal(t, []string{"both"}, slugsOf(r.RelatedPosts(p, 1)))
}

func TestRelatedPostsTieBreaksByDate(t *testing.T) {
	p := post("subject", "2024-05-01", "go")
	r := NewRepository([]*Post{
		p,
		post("old", "2023-01-01", "go"),
		post("new", "2024-03-01", "go"),
		post("mid", "2023-06-01", "go"),
	})
	assert.Equal(t, []string{"new", "mid", "old"}, slugsOf(r.RelatedPosts(p, 3)))
}

func TestRelatedPostsNeverPads(t *testing.T) {
	p := post("subject", "2024-05-01", "go")
	r := NewRepository([]*Post{p, post("other", "2024-01-01", "rust"), post("untagged", "2024-01-02")})

	got := r.RelatedPosts(p, 3)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, r.RelatedPosts(post("lonely", "2024-01-01"), 3))
	assert.Empty(t, r.RelatedPosts(p, 0))
}
