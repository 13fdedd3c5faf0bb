package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KV is the byte key-value store progress is persisted in.
// Implementations must be safe for concurrent use by independent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by stores holding an open resource.
type Closer interface {
	Close() error
}

// Metrics receives gameplay counters.
type Metrics interface {
	PuzzleServed(isToday bool)
	Checked(allCorrect bool)
	Submitted(mode string, correct int)
	Completed(mode string, won bool, guesses int)
	Rejected(reason string)
}
