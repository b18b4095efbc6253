// apps/daily-server/internal/game/session.go
//
// Observable holder for one player's State.
// Every change goes through Update (or Set), and subscribers are told about
// each change in the order the changes were made.
//
// Locking:
//   - updateMu serializes updates together with their notifications, so a
//     subscriber never receives an older state after a newer one.
//   - mu guards state and subscribers; it is never held while subscribers run,
//     so they may read the session with State().
//   - Subscribers must not update the session they are notified by.

package game

import "sync"

// Session holds the current State of one player behind an update function
// and notifies subscribers after every change.
type Session struct {
	src WordSource

	updateMu sync.Mutex // held from applying a change until its subscribers return

	mu     sync.Mutex // guards state, nextID, subs
	state  State
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(State)
}

// NewSession wraps st, played against src.
func NewSession(src WordSource, st State) *Session {
	return &Session{src: src, state: st}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn, calls it once with the current state and then after
// every change. The first call is ordered with updates like any other
// notification. The returned func removes the subscription.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.updateMu.Lock()
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	cur := s.state
	s.mu.Unlock()

	fn(cur)
	s.updateMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Set replaces the state and notifies subscribers.
func (s *Session) Set(st State) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	s.state = st
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, st)
}

// Update applies fn to the current state. If fn fails, the state is left as
// it was, nobody is notified and the current state is returned with the error.
func (s *Session) Update(fn func(State) (State, error)) (State, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		cur := s.state
		s.mu.Unlock()
		return cur, err
	}
	s.state = next
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, next)
	return next, nil
}

// Submit plays guess as the next attempt.
func (s *Session) Submit(guess string) (State, error) {
	return s.Update(func(st State) (State, error) { return st.Submit(guess) })
}

// Next moves on to the following word of the puzzle.
func (s *Session) Next() (State, error) {
	return s.Update(func(st State) (State, error) { return st.Next(s.src) })
}

// Reset goes back to the first word of the puzzle.
func (s *Session) Reset() (State, error) {
	return s.Update(func(State) (State, error) { return Reset(s.src) })
}

func (s *Session) snapshot() []subscriber {
	return append([]subscriber(nil), s.subs...)
}

func notify(subs []subscriber, st State) {
	for _, sub := range subs {
		sub.fn(st)
	}
}
