package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store used in tests. Unlike the hosted store it
// is read-after-write consistent. FailNext injects transient errors to
// exercise retry paths.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	failNext int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// FailNext makes the next n operations return a store error.
func (m *Memory) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

func (m *Memory) fail() bool {
	if m.failNext > 0 {
		m.failNext--
		return true
	}
	return false
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail() {
		return nil, &Error{Msg: "injected failure"}
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail() {
		return &Error{Msg: "injected failure"}
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail() {
		return &Error{Msg: "injected failure"}
	}
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
