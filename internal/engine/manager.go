package engine

import (
	"sync"
	"sync/atomic"
)

// Manager holds the currently active engine and swaps in a new one when the
// ruleset is re-synced. Serve-mode handlers always read a complete engine.
type Manager struct {
	current atomic.Pointer[Engine]
	mu      sync.Mutex
}

func NewManager(initial *Engine) *Manager {
	m := &Manager{}
	m.current.Store(initial)
	return m
}

func (m *Manager) Engine() *Engine {
	return m.current.Load()
}

func (m *Manager) Update(e *Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Store(e)
}
