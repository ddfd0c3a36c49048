package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore - in-memory реализация Store для тестов и локальной разработки.
// Документы хранятся как JSON, поэтому вызывающий получает копию
// с теми же типами, что и после Postgres (числа -> float64).
type MemoryStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	err   error
	calls []Call
}

// Call - запись о выполненной операции
type Call struct {
	Op         string
	Collection string
	ID         string
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// WithError заставляет все последующие вызовы возвращать err (nil - сброс)
func (m *MemoryStore) WithError(err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Calls возвращает копию журнала операций
func (m *MemoryStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "get", Collection: collection, ID: id})

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	raw, ok := m.docs[key(collection, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return decode(raw)
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, doc Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "set", Collection: collection, ID: id})

	if err := m.check(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}
	m.docs[key(collection, id)] = raw
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "update", Collection: collection, ID: id})

	if err := m.check(ctx); err != nil {
		return err
	}
	k := key(collection, id)
	raw, ok := m.docs[k]
	if !ok {
		return ErrNotFound
	}
	current, err := decode(raw)
	if err != nil {
		return err
	}
	updated, err := json.Marshal(merge(current, fields))
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}
	m.docs[k] = updated
	return nil
}

// check вызывается под мьютексом
func (m *MemoryStore) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.err
}

func key(collection, id string) string {
	return collection + "/" + id
}

func decode(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	return doc, nil
}
