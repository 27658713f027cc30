package cache

import (
	"context"
	"strings"
	"sync"
)

// memStore keeps encoded entries so that callers never share maps with
// the cache.
type memStore struct {
	mu   sync.RWMutex
	rows map[string]memRow
}

type memRow struct {
	payload []byte
	entry   Entry
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]memRow)}
}

func (m *memStore) Get(ctx context.Context, key string) (Entry, error) {
	m.mu.RLock()
	row, ok := m.rows[key]
	m.mu.RUnlock()
	if !ok {
		return Entry{}, ErrMiss
	}
	res, err := decodeResult(row.payload)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Result: res, StoredAt: row.entry.StoredAt}, nil
}

func (m *memStore) Put(ctx context.Context, key string, e Entry) error {
	b, err := encodeResult(e.Result)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = memRow{payload: b, entry: Entry{StoredAt: e.StoredAt}}
	return nil
}

func (m *memStore) Purge(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.rows {
		if strings.HasPrefix(k, prefix) {
			delete(m.rows, k)
		}
	}
	return nil
}

func (m *memStore) Close() error { return nil }
