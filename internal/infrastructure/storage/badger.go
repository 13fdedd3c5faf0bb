package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"svw.info/ordl/internal/ports"
)

// BadgerConfig configures an embedded Badger store.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// GCInterval is how often the value log is garbage collected. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
	Logger         *slog.Logger
}

func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// badgerLogger routes Badger's logging into slog.
type badgerLogger struct{ logger *slog.Logger }

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Badger stores progress in an embedded Badger database.
type Badger struct {
	db     *badger.DB
	stop   chan struct{}
	done   chan struct{}
	logger *slog.Logger
}

func OpenBadger(cfg BadgerConfig) (*Badger, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required for persistent database")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	b := &Badger{db: db, logger: cfg.Logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		b.stop, b.done = make(chan struct{}), make(chan struct{})
		go b.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return b, nil
}

func (b *Badger) runGC(interval time.Duration, ratio float64) {
	defer close(b.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			// ErrNoRewrite only means there was nothing to collect.
			if err := b.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) && b.logger != nil {
				b.logger.Warn("badger value log GC error", "err", err)
			}
		}
	}
}

func (b *Badger) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ports.ErrNotFound
	}
	return out, err
}

func (b *Badger) Put(ctx context.Context, key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *Badger) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close stops garbage collection and closes the database.
func (b *Badger) Close() error {
	if b.stop != nil {
		close(b.stop)
		<-b.done
		b.stop = nil
	}
	return b.db.Close()
}
