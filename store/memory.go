package store

import (
	"bytes"
	"context"
	"sync"
)

// Memory keeps the snapshot in memory, it is lost when the process exits.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// Load implements folio.SnapshotStore.
func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNoSnapshot
	}
	return bytes.Clone(m.data), nil
}

// Save implements folio.SnapshotStore.
func (m *Memory) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = bytes.Clone(data)
	return nil
}
