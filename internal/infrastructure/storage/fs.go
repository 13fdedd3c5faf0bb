package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"svw.info/ordl/internal/ports"
)

// FS keeps one JSON file per key under dir. Slashes in a key become
// subdirectories, so player/<id>/ordl-today is stored at
// dir/player/<id>/ordl-today.json.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func (s *FS) pathFor(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("invalid key: empty")
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("invalid key %q", key)
		}
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)+".json"), nil
}

func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ports.ErrNotFound
	}
	return b, err
}

// Put writes through a temp file and rename so a crash never leaves a
// half-written record behind.
func (s *FS) Put(ctx context.Context, key string, value []byte) error {
	target, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(value); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), target)
}

func (s *FS) Delete(ctx context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
