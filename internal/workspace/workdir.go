// Package workspace manages the per-request temporary directories that hold
// the staged upload and the converter output.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const dirPattern = "pdfconv-*"

// WorkDir is a temporary directory owned by exactly one request.
// Release must be called on every exit path; it is safe to call more than once.
type WorkDir struct {
	path string
	once sync.Once
	err  error
}

// Acquire creates a fresh, uniquely named directory under root.
// An empty root means the OS temp directory.
func Acquire(root string) (*WorkDir, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o700); err != nil {
			return nil, fmt.Errorf("create work root %s: %w", root, err)
		}
	}
	dir, err := os.MkdirTemp(root, dirPattern)
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	return &WorkDir{path: dir}, nil
}

// Path returns the directory path
func (w *WorkDir) Path() string {
	return w.path
}

// File returns the path of name inside the directory. name must be a plain file name.
func (w *WorkDir) File(name string) string {
	return filepath.Join(w.path, filepath.Base(name))
}

// Release removes the directory and everything in it
func (w *WorkDir) Release() error {
	w.once.Do(func() {
		if err := os.RemoveAll(w.path); err != nil {
			w.err = fmt.Errorf("remove work directory %s: %w", w.path, err)
		}
	})
	return w.err
}
