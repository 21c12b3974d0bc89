// Package fsutil writes build artifacts so readers never observe a partial file.
package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/folio/internal/retry"
)

// DefaultPerm is applied to generated artifacts; they are served publicly.
const DefaultPerm os.FileMode = 0o644

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return writeAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomic(path string, perm os.FileMode, fill func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", path, err)
	}
	committed = true
	return nil
}

// Writer writes artifacts atomically, retrying failed writes per its policy.
type Writer struct {
	Policy retry.Policy
	Perm   os.FileMode
}

// NewWriter returns a Writer with the default single immediate retry.
func NewWriter() *Writer {
	return &Writer{Policy: retry.DefaultPolicy(), Perm: DefaultPerm}
}

// WriteFile atomically replaces path with data.
func (w *Writer) WriteFile(ctx context.Context, path string, data []byte) error {
	return w.Policy.Do(ctx, func() error {
		return WriteFileAtomic(path, data, w.perm())
	})
}

// WriteWith renders into a buffer via render, then atomically replaces path.
// Rendering happens once; only the file write is retried.
func (w *Writer) WriteWith(ctx context.Context, path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return w.WriteFile(ctx, path, buf.Bytes())
}

func (w *Writer) perm() os.FileMode {
	if w.Perm == 0 {
		return DefaultPerm
	}
	return w.Perm
}
