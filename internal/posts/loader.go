package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/folio/internal/frontmatter"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// DefaultExtensions are the document extensions loaded when none are configured.
var DefaultExtensions = []string{".md", ".mdx", ".markdown"}

// Loader reads every content document under Dir.
type Loader struct {
	Dir        string
	Extensions []string
	Options    Options
}

// NewLoader returns a loader for dir using the default extensions.
func NewLoader(dir string, opts Options) *Loader {
	return &Loader{Dir: dir, Extensions: DefaultExtensions, Options: opts}
}

// Load parses all documents in path order.
//
// A missing content directory is not an error: Load logs a warning and returns
// no posts. Every malformed document and every duplicate slug is reported, each
// with its path, in one joined error; in that case no posts are returned.
func (l *Loader) Load(ctx context.Context) ([]*Post, error) {
	paths, err := l.Discover()
	if err != nil {
		return nil, err
	}
	if paths == nil {
		slog.Warn("Content directory not found; continuing with no posts", logfields.Path(l.Dir))
		return []*Post{}, nil
	}
	if len(paths) == 0 {
		slog.Warn("Content directory is empty", logfields.Path(l.Dir))
		return []*Post{}, nil
	}

	var errs []error
	out := make([]*Post, 0, len(paths))
	owners := make(map[string]string, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := l.loadOne(rel)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w: %w", rel, ErrMalformedDocument, err))
			continue
		}
		if prev, dup := owners[p.Slug]; dup {
			errs = append(errs, fmt.Errorf("%s: %w %q (already used by %s)", rel, ErrDuplicateSlug, p.Slug, prev))
			continue
		}
		owners[p.Slug] = rel
		out = append(out, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	slog.Debug("Loaded content documents", logfields.Path(l.Dir), logfields.Count(len(out)))
	return out, nil
}

// Discover lists document paths relative to Dir, slash separated and sorted.
// It returns nil without error when Dir does not exist. Hidden files and
// directories are skipped.
func (l *Loader) Discover() ([]string, error) {
	info, err := os.Stat(l.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", l.Dir)
	}

	exts := l.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	paths := []string{}
	err = filepath.WalkDir(l.Dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if p != l.Dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !slices.Contains(exts, strings.ToLower(filepath.Ext(name))) {
			return nil
		}
		rel, err := filepath.Rel(l.Dir, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content directory: %w", err)
	}
	slices.Sort(paths)
	return paths, nil
}

func (l *Loader) loadOne(rel string) (*Post, error) {
	abs := filepath.Join(l.Dir, filepath.FromSlash(rel))
	data, err := os.ReadFile(abs) // #nosec G304 -- path discovered under the content root
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return nil, err
	}
	return FromDocument(rel, abs, doc, l.Options)
}
