package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"jobgate/pkg/platform/sentinel"
)

// Memory is an in-process Collection guarded by a RWMutex.
type Memory[T any] struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{docs: make(map[string][]byte)}
}

func (m *Memory[T]) Get(_ context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("document %q: %w", key, sentinel.ErrNotFound)
	}
	return decode[T](raw)
}

func (m *Memory[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.order))
	for _, key := range m.order {
		doc, err := decode[T](m.docs[key])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *Memory[T]) Create(_ context.Context, key string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[key]; exists {
		return fmt.Errorf("document %q: %w", key, sentinel.ErrConflict)
	}
	m.docs[key] = raw
	m.order = append(m.order, key)
	return nil
}

func (m *Memory[T]) Upsert(_ context.Context, key string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[key]; !exists {
		m.order = append(m.order, key)
	}
	m.docs[key] = raw
	return nil
}

func (m *Memory[T]) Update(_ context.Context, key string, fn func(*T) error) (T, error) {
	var zero T
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[key]
	if !ok {
		return zero, fmt.Errorf("document %q: %w", key, sentinel.ErrNotFound)
	}
	doc, err := decode[T](raw)
	if err != nil {
		return zero, err
	}
	if err := fn(&doc); err != nil {
		return zero, err
	}
	updated, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}
	m.docs[key] = updated
	return doc, nil
}

func (m *Memory[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; !ok {
		return fmt.Errorf("document %q: %w", key, sentinel.ErrNotFound)
	}
	delete(m.docs, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored documents.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func decode[T any](raw []byte) (T, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
