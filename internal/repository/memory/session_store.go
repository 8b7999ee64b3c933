package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pollbot/internal/domain/poll"
)

// SessionStore is the process-local poll session registry. Sessions
// live only for the life of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*poll.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*poll.Session)}
}

func (s *SessionStore) Insert(ctx context.Context, sess *poll.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s already registered", sess.ID)
	}
	s.sessions[sess.ID] = sess
	return nil
}

// Mutate runs fn on the stored session while holding the registry
// lock, so concurrent operations on the same session never interleave.
// fn's error is returned unchanged.
func (s *SessionStore) Mutate(ctx context.Context, id string, fn func(*poll.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return poll.ErrSessionNotFound
	}
	return fn(sess)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return poll.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ClosedBefore lists closed sessions whose voting window ended before
// cutoff, for the eviction sweep.
func (s *SessionStore) ClosedBefore(ctx context.Context, cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, sess := range s.sessions {
		if sess.Status == poll.StatusClosed && sess.ExpiresAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *SessionStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
