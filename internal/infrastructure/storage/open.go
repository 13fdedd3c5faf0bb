// Package storage provides the key/value backends progress is kept in.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"svw.info/ordl/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendFS     = "fs"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend named kind rooted at path. The returned closer is
// non-nil for backends holding an open database.
func Open(ctx context.Context, kind, path string, logger *slog.Logger) (ports.KV, ports.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case BackendFS, "":
		return NewFS(path), nil, nil
	case BackendBadger:
		cfg := DefaultBadgerConfig(filepath.Join(path, "badger"))
		cfg.Logger = logger
		db, err := OpenBadger(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case BackendSQLite:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, nil, err
		}
		db, err := OpenSQLite(ctx, filepath.Join(path, "ordl.db"))
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case BackendMemory:
		return NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
