// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions are ephemeral by design: state is lost when the process restarts.
//
// Characteristics:
//   - Stores game.Session values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Update runs a transition under the write lock, so actions on one
//     session are serialized.
//   - Sessions idle longer than the TTL are dropped by Run's sweep loop.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/quizbust/internal/game"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for quiz sessions.
type Store interface {
	// Create stores a fresh session built with rules and returns it.
	Create(ctx context.Context, rules game.Rules) (game.Session, error)

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (game.Session, error)

	// Update loads a session, passes it to fn and stores the result.
	// When fn fails nothing is stored and the loaded session is returned
	// alongside fn's error.
	Update(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error)

	// Delete removes a session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}

// Memory is a map-based Store implementation.
type Memory struct {
	mu       sync.RWMutex            // guards sessions
	sessions map[string]game.Session // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() *Memory {
	return &Memory{sessions: make(map[string]game.Session), now: time.Now}
}

func (m *Memory) Create(ctx context.Context, rules game.Rules) (game.Session, error) {
	if err := ctx.Err(); err != nil {
		return game.Session{}, err
	}
	s := game.New(uuid.NewString(), rules)
	s.CreatedAt = m.now().UTC()
	s.UpdatedAt = s.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *Memory) Get(ctx context.Context, id string) (game.Session, error) {
	if err := ctx.Err(); err != nil {
		return game.Session{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return game.Session{}, ErrNotFound
}

func (m *Memory) Update(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error) {
	if err := ctx.Err(); err != nil {
		return game.Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[id]
	if !ok {
		return game.Session{}, ErrNotFound
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	next.ID = cur.ID
	next.UpdatedAt = m.now().UTC()
	m.sessions[id] = next
	return next, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions not updated within ttl and returns how many went.
func (m *Memory) Sweep(ttl time.Duration) int {
	cutoff := m.now().UTC().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions every ttl/4 until ctx is cancelled.
// A non-positive ttl disables expiry and Run returns immediately.
func (m *Memory) Run(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	every := max(ttl/4, time.Second)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ttl); n > 0 {
				log.Info().Int("expired", n).Int("remaining", m.Len()).Msg("sessions swept")
			}
		}
	}
}
