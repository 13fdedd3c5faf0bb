package storage

import (
	"context"
	"slices"
	"sync"

	"svw.info/ordl/internal/ports"
)

// Memory is a process-local store, used in tests and for throwaway servers.
type Memory struct {
	values sync.Map // map[string][]byte
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.values.Load(key)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return slices.Clone(v.([]byte)), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	m.values.Store(key, slices.Clone(value))
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.values.Delete(key)
	return nil
}

// Len counts stored keys.
func (m *Memory) Len() int {
	n := 0
	m.values.Range(func(_, _ any) bool { n++; return true })
	return n
}
