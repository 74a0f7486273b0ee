package generator

import (
	"os"
	"path/filepath"
	"strings"
)

// artifactWriter abstracts output writes so tests can intercept them.
type artifactWriter interface {
	EnsureDir(rel string) error
	WriteFile(rel string, data []byte) error
}

// fsWriter writes build artifacts below a root directory. Directories are
// created on demand and every write is a full-file overwrite.
type fsWriter struct {
	root string
}

func (w *fsWriter) EnsureDir(rel string) error {
	if strings.TrimSpace(rel) == "" || rel == "." {
		return nil
	}
	return os.MkdirAll(filepath.Join(w.root, filepath.FromSlash(rel)), 0o755)
}

func (w *fsWriter) WriteFile(rel string, data []byte) error {
	if err := w.EnsureDir(filepath.Dir(filepath.FromSlash(rel))); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.root, filepath.FromSlash(rel)), data, 0o644)
}
