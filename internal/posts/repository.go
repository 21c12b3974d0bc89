package posts

import (
	"slices"
)

// Repository is an immutable, date-sorted view over loaded posts.
type Repository struct {
	all    []*Post
	public []*Post
	bySlug map[string]*Post
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*repoConfig)

type repoConfig struct {
	includeDrafts bool
}

// WithDrafts makes unpublished posts part of the public view.
func WithDrafts(include bool) RepositoryOption {
	return func(c *repoConfig) { c.includeDrafts = include }
}

// NewRepository sorts posts by date, newest first. Posts with equal dates keep
// their input order.
func NewRepository(posts []*Post, opts ...RepositoryOption) *Repository {
	var cfg repoConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	all := slices.Clone(posts)
	slices.SortStableFunc(all, func(a, b *Post) int {
		return b.Date.Compare(a.Date)
	})

	r := &Repository{
		all:    all,
		public: make([]*Post, 0, len(all)),
		bySlug: make(map[string]*Post, len(all)),
	}
	for _, p := range all {
		if !p.IsPublic(cfg.includeDrafts) {
			continue
		}
		r.public = append(r.public, p)
		r.bySlug[p.Slug] = p
	}
	return r
}

// ListAll returns the public posts, newest first.
func (r *Repository) ListAll() []*Post {
	return slices.Clone(r.public)
}

// All returns every loaded post, including unpublished ones, newest first.
func (r *Repository) All() []*Post {
	return slices.Clone(r.all)
}

// GetBySlug looks up a public post by exact slug. A miss is not an error.
func (r *Repository) GetBySlug(slug string) (*Post, bool) {
	p, ok := r.bySlug[slug]
	return p, ok
}

// Len is the number of public posts.
func (r *Repository) Len() int { return len(r.public) }
