package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/nsrdb-epw-service/internal/epw"
)

// FileLoader writes EPW documents into a directory.
type FileLoader struct {
	dir string
}

// NewFileLoader creates a loader writing into dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

// Load writes doc atomically as dir/name.
func (l *FileLoader) Load(ctx context.Context, doc *epw.Document, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(l.dir, name)
	if err := epw.WriteFile(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// CheckReadiness returns nil when the output directory accepts new files.
func (l *FileLoader) CheckReadiness(_ context.Context) error {
	info, err := os.Stat(l.dir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", l.dir)
	}
	f, err := os.CreateTemp(l.dir, ".readyz-*")
	if err != nil {
		return fmt.Errorf("output directory not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
