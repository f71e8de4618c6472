package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions in process memory.
type Store interface {
	Create(variant string) *Session
	// Do runs fn with exclusive access to the session. Events for the same
	// session never overlap.
	Do(id string, fn func(*Session) error) error
	Snapshot(id string) (Session, error)
	Destroy(id string) (*Session, error)
	// Sweep destroys sessions idle for longer than ttl and returns them.
	Sweep(ttl time.Duration) []*Session
	Len() int
}

type entry struct {
	mu   sync.Mutex
	sess *Session
	gone bool
}

type implStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore creates an empty in-memory Store.
func NewStore() Store {
	return &implStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

func (s *implStore) Create(variant string) *Session {
	sess := newSession(uuid.NewString(), variant, s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = &entry{sess: sess}
	s.mu.Unlock()

	return sess
}

func (s *implStore) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *implStore) Do(id string, fn func(*Session) error) error {
	e, ok := s.lookup(id)
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone {
		return ErrNotFound
	}

	e.sess.LastSeen = s.now()
	return fn(e.sess)
}

func (s *implStore) Snapshot(id string) (Session, error) {
	var snap Session
	err := s.Do(id, func(sess *Session) error {
		snap = sess.Clone()
		return nil
	})
	return snap, err
}

func (s *implStore) Destroy(id string) (*Session, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	// wait for any in-flight event to finish
	e.mu.Lock()
	e.gone = true
	e.mu.Unlock()
	return e.sess, nil
}

func (s *implStore) Sweep(ttl time.Duration) []*Session {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var expired []*entry
	for id, e := range s.sessions {
		// skip sessions busy with an event
		if !e.mu.TryLock() {
			continue
		}
		if e.sess.LastSeen.Before(cutoff) {
			e.gone = true
			delete(s.sessions, id)
			expired = append(expired, e)
		}
		e.mu.Unlock()
	}
	s.mu.Unlock()

	out := make([]*Session, 0, len(expired))
	for _, e := range expired {
		out = append(out, e.sess)
	}
	return out
}

func (s *implStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
