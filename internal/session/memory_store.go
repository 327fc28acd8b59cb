package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	state     *State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Entries expire after ttl of
// inactivity; every successful Get extends the deadline.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the stored state for id
func (m *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if !now.Before(entry.expiresAt) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	entry.expiresAt = now.Add(m.ttl)
	m.entries[id] = entry
	return entry.state, nil
}

// Save stores state under its ID, replacing any previous upload
func (m *MemoryStore) Save(ctx context.Context, state *State) error {
	if state == nil || state.ID == "" {
		return fmt.Errorf("save session: missing session id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[state.ID] = memoryEntry{state: state, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Reset removes the state of id; resetting an unknown id is not an error
func (m *MemoryStore) Reset(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Sweep drops every expired entry and returns how many were removed
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close drops every session
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
