package session

import (
	"sync"
	"time"
)

// Store keeps sessions in memory. Sessions idle for longer than the TTL are
// dropped the next time the store is accessed.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time
}

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// NewStore creates a store; ttl <= 0 keeps sessions forever.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, sessions: make(map[string]*entry), now: time.Now}
}

// Get returns a live session by id and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	st.prune(now)
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.sess, true
}

// GetOrCreate returns the session for id, creating a new one (with a new id)
// when id is unknown or expired. created reports whether a session was made.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	st.prune(now)
	if e, ok := st.sessions[id]; ok && id != "" {
		e.lastSeen = now
		return e.sess, false
	}
	s = New()
	st.sessions[s.ID] = &entry{sess: s, lastSeen: now}
	return s, true
}

// Delete forgets a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.prune(st.now())
	return len(st.sessions)
}

func (st *Store) prune(now time.Time) {
	if st.ttl <= 0 {
		return
	}
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
