// internal/registry/memory.go
//
// In-memory Registry implementation.
// This is a lightweight store used when no Redis URL is configured,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions expire after a TTL measured from the last Save; expired
//     entries are evicted lazily on access and by a background sweep.
//   - State is lost when the process restarts.

package registry

import (
	"context"
	"sync"
	"time"

	"github.com/wurdsmyth/go-server/internal/game"
)

type memoryEntry struct {
	session   *game.Session
	expiresAt time.Time // zero means no expiry
}

// Memory is the map-backed Registry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewMemory constructs an in-memory Registry. Sessions idle longer than ttl
// since their last Save are expired; ttl <= 0 disables expiry. When expiry
// is enabled a sweep goroutine reaps abandoned sessions until Close.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	if ttl > 0 {
		go m.sweep()
	}
	return m
}

// Save adds or updates the session and refreshes its expiry.
func (m *Memory) Save(ctx context.Context, s *game.Session) error {
	var exp time.Time
	if m.ttl > 0 {
		exp = time.Now().Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{session: s, expiresAt: exp}
	return nil
}

// Get looks up a live session by ID; expired entries count as absent.
func (m *Memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return e.session, nil
}

// Delete removes a session; absent IDs are a no-op.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Count reports the number of unexpired sessions.
func (m *Memory) Count(ctx context.Context) (int, error) {
	now := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.entries {
		if e.expiresAt.IsZero() || now.Before(e.expiresAt) {
			n++
		}
	}
	return n, nil
}

// Close stops the background sweep. Idempotent.
func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// sweep reaps expired sessions periodically so abandoned games do not
// accumulate between accesses.
func (m *Memory) sweep() {
	interval := m.ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-m.done:
			return
		case now := <-t.C:
			m.mu.Lock()
			for id, e := range m.entries {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(m.entries, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
