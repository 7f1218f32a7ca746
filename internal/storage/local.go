package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore reads source files from and writes debug files to a directory.
// It backs the command-line parser.
type LocalStore struct {
	Root string
}

func (l LocalStore) path(p string) string {
	if filepath.IsAbs(p) || l.Root == "" {
		return p
	}
	return filepath.Join(l.Root, p)
}

func (l LocalStore) Fetch(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(l.path(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return data, err
}

func (l LocalStore) UploadBytes(_ context.Context, key string, data []byte, _ string) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
