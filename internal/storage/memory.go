package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	state     PageState
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-instance deployments
type MemoryStore struct {
	mu        sync.Mutex
	pages     map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryStore creates a memory store whose pages expire after ttl of
// inactivity
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		pages: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns a copy of the page state, or a fresh state when the page is
// unknown or expired. Loading a live page extends its TTL.
func (m *MemoryStore) Load(ctx context.Context, pageID string) (PageState, error) {
	if pageID == "" {
		return PageState{}, fmt.Errorf("page ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st := m.current(pageID)
	if entry, ok := m.pages[pageID]; ok {
		entry.expiresAt = m.now().Add(m.ttl)
		m.pages[pageID] = entry
	}
	return st.Clone(), nil
}

// Update applies fn under the store lock and stores its result
func (m *MemoryStore) Update(ctx context.Context, pageID string, fn UpdateFunc) (PageState, error) {
	if pageID == "" {
		return PageState{}, fmt.Errorf("page ID cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return PageState{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.current(pageID).Clone())
	if err != nil {
		return PageState{}, err
	}

	now := m.now()
	next.UpdatedAt = now.Unix()
	if next.Stats == nil {
		next.Stats = make(map[string]StatsEntry)
	}
	m.pages[pageID] = memoryEntry{state: next, expiresAt: now.Add(m.ttl)}
	m.sweep(now)

	return next.Clone(), nil
}

// Close drops every page
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = make(map[string]memoryEntry)
	return nil
}

// Len returns the number of live pages
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// current must be called with mu held
func (m *MemoryStore) current(pageID string) PageState {
	now := m.now()
	entry, exists := m.pages[pageID]
	if !exists || (m.ttl > 0 && now.After(entry.expiresAt)) {
		delete(m.pages, pageID)
		return newPageState(now.Unix())
	}
	return entry.state
}

// sweep drops expired pages at most once per ttl; must be called with mu held
func (m *MemoryStore) sweep(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl {
		return
	}
	m.lastSweep = now
	for id, entry := range m.pages {
		if now.After(entry.expiresAt) {
			delete(m.pages, id)
		}
	}
}
