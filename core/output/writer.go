// Package output handles writing the run's artifacts (JSON, PDF, Markdown)
// into the output directory. A failed artifact write is the one error class
// that aborts the whole run.
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer writes rendered artifacts to disk.
type Writer struct {
	Dir string
}

// New creates a Writer targeting dir, creating it if needed. An empty dir
// defaults to the current working directory.
func New(dir string) (*Writer, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// Write stores data under name in the output directory and returns the
// full path.
func (w *Writer) Write(name string, data []byte) (string, error) {
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}
