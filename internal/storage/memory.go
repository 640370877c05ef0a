package storage

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV. Failures can be injected for tests.
type MemoryKV struct {
	mu        sync.Mutex
	data      map[string][]byte
	loadErr   error
	saveErr   error
	saveCount int
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

// FailLoad makes every Load return err until cleared with nil.
func (m *MemoryKV) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes every Save return err until cleared with nil.
func (m *MemoryKV) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SaveCount reports how many Saves succeeded.
func (m *MemoryKV) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCount
}

func (m *MemoryKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	blob, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

func (m *MemoryKV) Save(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), blob...)
	m.saveCount++
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
