package session

import "sync"

// Observer receives every [State] change, in the order the writes occurred.
type Observer func(State)

// Store is the single mutable state cell of the session layer. It holds the
// current [State] and broadcasts every change to subscribed observers.
//
// Store applies no policy: writes are idempotent and last-write-wins. Flow
// orchestration decides what gets written; guards and UI code only read.
//
// Observers are notified synchronously under the store's write lock, which
// guarantees they see updates in write order. Observers must therefore
// return quickly and must not call back into the store from the callback.
type Store struct {
	mu        sync.Mutex
	state     State
	observers map[int]Observer
	nextID    int
}

// NewStore creates an empty session [Store]: no profile, not loading,
// no error.
func NewStore() *Store {
	return &Store{
		observers: make(map[int]Observer),
	}
}

// Current returns a point-in-time copy of the store state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer for all subsequent state changes and
// returns a function that removes it. The observer is not invoked with the
// current state at subscription time.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Set replaces the current profile. Pass nil to mark the session as
// signed out.
func (s *Store) Set(profile *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile = profile
	s.notifyLocked()
}

// SetLoading toggles the in-flight flow flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
	s.notifyLocked()
}

// SetError records the message of the last failed flow. Pass "" to clear.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastError = msg
	s.notifyLocked()
}

func (s *Store) notifyLocked() {
	state := s.state
	for _, fn := range s.observers {
		fn(state)
	}
}
