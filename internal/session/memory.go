package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation. It backs tests and local
// development where a relational store is not available. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	users    map[string]User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		users:    make(map[string]User),
	}
}

func (s *MemoryStore) GetSession(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) CreateSession(ctx context.Context, id string, userID *string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		return nil, ErrDuplicateID
	}

	now := time.Now()
	sess := Session{
		ID:         id,
		UserID:     userID,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	s.sessions[id] = sess
	return &sess, nil
}

func (s *MemoryStore) TouchSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	sess.LastSeenAt = time.Now()
	s.sessions[id] = sess
	return nil
}

func (s *MemoryStore) LinkSessionToUser(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	sess.UserID = &userID
	sess.LastSeenAt = time.Now()
	s.sessions[id] = sess
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryStore) UpsertUser(ctx context.Context, params UpsertUserParams) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	user, ok := s.users[params.ID]
	if !ok {
		user = User{ID: params.ID, CreatedAt: now}
	}

	if params.DisplayName != nil {
		user.DisplayName = params.DisplayName
	}
	if params.Provider != nil {
		user.Provider = params.Provider
	}
	if params.ProviderSub != nil {
		user.ProviderSub = params.ProviderSub
	}
	user.UpdatedAt = now

	s.users[params.ID] = user
	return &user, nil
}

// Revoke marks a session revoked. Revocation is logical; rows are never
// physically deleted by this core.
func (s *MemoryStore) Revoke(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Revoked = true
	s.sessions[id] = sess
	return nil
}
