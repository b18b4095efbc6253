// apps/daily-server/internal/store/memory.go
//
// In-memory implementation of the session Store.
// Holds one *game.Session per session ID; the session itself serializes
// updates, so two requests for the same player apply one after the other.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent lookups allowed, inserts exclusive).
//   - State is lost when the process restarts; callers restore it from the
//     client's signed state cookie.
//   - Sessions not looked up or touched since a cutoff are removed by Sweep,
//     which bounds memory; an evicted player is restored from the cookie.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robalobadob/wordle/apps/daily-server/internal/game"
)

// ErrEmptyID is returned for a blank session ID.
var ErrEmptyID = errors.New("store: empty session id")

// Store defines the per-session state holder.
type Store interface {
	// Session returns the session for id. If there is none, restore is
	// called to build its initial state and created is true.
	Session(ctx context.Context, id string, restore func() (game.State, error)) (sess *game.Session, created bool, err error)

	// Drop forgets the session for id.
	Drop(ctx context.Context, id string) error

	// Touch marks the session for id as in use without looking it up.
	Touch(id string)

	// Sweep forgets every session last used before cutoff and returns how
	// many were removed.
	Sweep(cutoff time.Time) int

	// Len is the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	src game.WordSource
	now func() time.Time

	mu       sync.RWMutex      // guards sessions
	sessions map[string]*entry // keyed by session ID
}

type entry struct {
	sess *game.Session
	seen atomic.Int64 // unix nanoseconds of the last lookup or touch
}

// NewMemoryStore constructs an in-memory Store whose sessions play src.
func NewMemoryStore(src game.WordSource) Store {
	return &memory{src: src, now: time.Now, sessions: make(map[string]*entry)}
}

func (m *memory) Session(ctx context.Context, id string, restore func() (game.State, error)) (*game.Session, bool, error) {
	if id == "" {
		return nil, false, ErrEmptyID
	}

	m.mu.RLock()
	e, ok := m.sessions[id]
	if ok {
		e.seen.Store(m.now().UnixNano())
	}
	m.mu.RUnlock()
	if ok {
		return e.sess, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.seen.Store(m.now().UnixNano())
		return e.sess, false, nil
	}
	st, err := restore()
	if err != nil {
		return nil, false, err
	}
	e = &entry{sess: game.NewSession(m.src, st)}
	e.seen.Store(m.now().UnixNano())
	m.sessions[id] = e
	return e.sess, true, nil
}

func (m *memory) Touch(id string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		e.seen.Store(m.now().UnixNano())
	}
}

func (m *memory) Sweep(cutoff time.Time) int {
	c := cutoff.UnixNano()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.seen.Load() < c {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Drop(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
