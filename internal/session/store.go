package session

import (
	"context"
	"sync"
	"time"

	id "veridesk/pkg/domain"
	"veridesk/pkg/platform/sentinel"
)

// Store persists operator sessions. Implementations must expire records at
// Session.ExpiresAt; FindByID never returns an expired session.
type Store interface {
	Create(ctx context.Context, sess *Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*Session, error)
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, sessionID id.SessionID) error
}

// InMemoryStore keeps sessions in a map. Used in tests and single-node
// deployments without Redis.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]Session
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[id.SessionID]Session),
		now:      time.Now,
	}
}

func (s *InMemoryStore) Create(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; ok {
		return sentinel.ErrConflict
	}
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if sess.Expired(s.now()) {
		return nil, sentinel.ErrExpired
	}
	out := sess
	return &out, nil
}

func (s *InMemoryStore) Update(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
