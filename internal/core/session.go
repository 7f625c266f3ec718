package core

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session defaults.
const (
	DefaultSessionTTL  = time.Hour
	DefaultMaxSessions = 100
)

// Session owns one loaded table and its classification. The table is
// replaced wholesale by a new upload and never edited in place.
type Session struct {
	ID             string
	Table          *Table
	Classification Classification
	CreatedAt      time.Time
	LastAccess     time.Time
}

// SessionStore keeps sessions in memory with an idle TTL and a capacity.
// When full, the least recently used session is evicted.
type SessionStore struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a store. Values <= 0 select the defaults.
func NewSessionStore(ttl time.Duration, maxSessions int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &SessionStore{
		ttl:      ttl,
		max:      maxSessions,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session for t.
func (s *SessionStore) Create(t *Table, cls Classification) *Session {
	now := s.now()
	sess := &Session{
		ID:             uuid.New().String(),
		Table:          t,
		Classification: cls,
		CreatedAt:      now,
		LastAccess:     now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID] = sess
	return sess.snapshot()
}

// Replace swaps the table of an existing session.
func (s *SessionStore) Replace(id string, t *Table, cls Classification) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	sess.Table = t
	sess.Classification = cls
	sess.LastAccess = s.now()
	return sess.snapshot(), nil
}

// Get returns a session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	sess.LastAccess = s.now()
	return sess.snapshot(), nil
}

// Delete removes a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// IDs returns stored session IDs, oldest access first.
func (s *SessionStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LastAccess.Before(list[j].LastAccess) })

	ids := make([]string, len(list))
	for i, sess := range list {
		ids[i] = sess.ID
	}
	return ids
}

func (s *SessionStore) liveLocked(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().Sub(sess.LastAccess) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) evictOldestLocked() {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.LastAccess.Before(oldest.LastAccess) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.ID)
	}
}

// snapshot copies the session header so callers never hold the stored
// pointer. Table and Classification are immutable and shared.
func (sess *Session) snapshot() *Session {
	cp := *sess
	return &cp
}
