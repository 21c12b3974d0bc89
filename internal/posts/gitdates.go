package posts

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
)

// GitDates looks up the committer time of the last commit that touched a file.
type GitDates struct {
	mu   sync.Mutex
	repo *git.Repository
	root string
}

// OpenGitDates opens the repository containing dir, searching parent
// directories for .git.
func OpenGitDates(dir string) (*GitDates, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository for %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("git worktree: %w", err)
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	return &GitDates{repo: repo, root: root}, nil
}

// LastModified returns the committer time of the newest commit touching path.
// ok is false for untracked files and repositories without commits.
func (g *GitDates) LastModified(path string) (time.Time, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	g.mu.Lock()
	defer g.mu.Unlock()

	// An empty repository yields plumbing.ErrReferenceNotFound here.
	iter, err := g.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	c, err := iter.Next()
	if err != nil {
		return time.Time{}, false
	}
	return c.Committer.When.UTC(), true
}
