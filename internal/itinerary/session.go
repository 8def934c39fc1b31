package itinerary

import (
	"sync"

	"tripdesk/internal/domain"
)

type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadLoaded
)

// Session owns one trip's in-memory itinerary for the lifetime of an editing
// view. The load state machine (idle → loading → loaded) makes the one-time
// initial load explicit instead of an ad-hoc flag, and the generation counter
// lets results of async work started before a reset be discarded instead of
// applied to a store they no longer belong to.
type Session struct {
	mu     sync.Mutex
	tripID int64
	store  *Store
	state  LoadState
	gen    uint64
}

func NewSession(tripID int64, cal Calendar) *Session {
	return &Session{
		tripID: tripID,
		store:  NewStore(cal),
	}
}

func (s *Session) TripID() int64 { return s.tripID }

func (s *Session) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Loaded() bool { return s.State() == LoadLoaded }

// BeginLoad transitions idle → loading and hands back the generation token
// the loader must present on completion. A second caller while a load is in
// flight (or after it finished) gets ok=false, which is what prevents a
// re-firing trigger from duplicating items into the buckets.
func (s *Session) BeginLoad() (gen uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != LoadIdle {
		return 0, false
	}
	s.state = LoadLoading
	return s.gen, true
}

// CompleteLoad installs the loaded items if the token is still current; a
// stale token means the session was reset mid-flight and the result is
// dropped.
func (s *Session) CompleteLoad(gen uint64, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != LoadLoading {
		return domain.ConflictError{Resource: "itinerary", Msg: "stale load discarded"}
	}
	for _, it := range items {
		if err := s.store.AddItem(it); err != nil {
			// a bad persisted row must not block the rest of the load
			continue
		}
	}
	s.state = LoadLoaded
	return nil
}

// AbortLoad returns loading → idle so a failed load can be retried.
func (s *Session) AbortLoad(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.state == LoadLoading {
		s.state = LoadIdle
	}
}

// Generation returns the token async callers should capture before starting
// long-running work against this session.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Current reports whether a previously captured token still refers to this
// session's live store.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Invalidate bumps the generation on teardown or rebuild; in-flight work
// keyed to older tokens is discarded when it lands.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = LoadIdle
	s.store = NewStore(s.store.Calendar())
}

// With runs fn against the store while holding the session lock. Before the
// initial load has completed the store is not usable and callers get an
// "itinerary not initialized" error instead of an empty view.
func (s *Session) With(fn func(*Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != LoadLoaded {
		return domain.ConflictError{Resource: "itinerary", Msg: "not initialized"}
	}
	return fn(s.store)
}
