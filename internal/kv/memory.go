package kv

import (
	"errors"
	"sync"
)

// ErrInjected is returned by Memory when a failure has been armed.
var ErrInjected = errors.New("kv: injected failure")

// Memory is an in-process Storage used by tests and as a last resort when
// no database can be opened.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailGet and FailSet make the corresponding operations return
	// ErrInjected. FailSet also applies to Delete.
	FailGet bool
	FailSet bool

	sets int
}

var _ Storage = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet {
		return nil, false, ErrInjected
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet {
		return ErrInjected
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.sets++
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet {
		return ErrInjected
	}
	delete(m.data, key)
	return nil
}

// Writes returns how many successful Set calls were made.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
