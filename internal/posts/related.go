package posts

import (
	"slices"

	"git.home.luguber.info/inful/folio/internal/util/sets"
)

// DefaultRelatedLimit is the number of related posts shown under an article.
const DefaultRelatedLimit = 3

// RelatedPosts ranks other public posts by the number of tags they share with
// p, then by date (newest first). Posts sharing no tag are never included, so
// fewer than limit results may be returned.
func (r *Repository) RelatedPosts(p *Post, limit int) []*Post {
	if p == nil || limit <= 0 || len(p.Tags) == 0 {
		return []*Post{}
	}
	tags := sets.New(p.Tags...)

	type scored struct {
		post   *Post
		shared int
	}
	candidates := make([]scored, 0, len(r.public))
	for _, c := range r.public {
		if c.Slug == p.Slug {
			continue
		}
		shared := tags.IntersectionLen(sets.New(c.Tags...))
		if shared == 0 {
			continue
		}
		candidates = append(candidates, scored{post: c, shared: shared})
	}

	// r.public is already newest first, so a stable sort on the score keeps
	// the date order within equal scores.
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return b.shared - a.shared
	})

	n := min(limit, len(candidates))
	out := make([]*Post, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.post)
	}
	return out
}
