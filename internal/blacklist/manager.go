package blacklist

import (
	"sync"
	"sync/atomic"

	"github.com/darmiel/sitegate/internal/core"
)

// Manager holds the current index and swaps in a freshly built one when the
// blacklist source changes. Readers always see a complete index; there is
// no partial mutation.
type Manager struct {
	current atomic.Pointer[Index]
	mu      sync.Mutex
}

func NewManager(initial *Index) *Manager {
	m := &Manager{}
	m.current.Store(initial)
	return m
}

func (m *Manager) Index() *Index {
	return m.current.Load()
}

// Rebuild constructs a new index from the given entries and atomically
// replaces the current one.
func (m *Manager) Rebuild(entries []core.BlacklistEntry, policy core.DuplicatePolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidate, err := Build(entries, policy)
	if err != nil {
		return err
	}

	m.current.Store(candidate)
	return nil
}
