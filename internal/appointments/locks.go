package appointments

import (
	"sync"

	"github.com/google/uuid"
)

// agentLocks serializes probe-then-write sequences per agent within this
// process. Cross-instance exclusion is handled by the redis lease; this
// keeps the common single-instance case cheap and deterministic.
type agentLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAgentLocks() *agentLocks {
	return &agentLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

// Lock blocks until the per-agent mutex is held and returns its unlock func.
func (a *agentLocks) Lock(agentID uuid.UUID) func() {
	a.mu.Lock()
	entry, ok := a.locks[agentID]
	if !ok {
		entry = &lockEntry{}
		a.locks[agentID] = entry
	}
	entry.refs++
	a.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		a.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(a.locks, agentID)
		}
		a.mu.Unlock()
	}
}
