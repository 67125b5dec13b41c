package store

import (
	"strings"
	"sync"

	"visually/pkg/domain"
)

// MemoryStore keeps users in memory (tests and local development).
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// SaveUser inserts or updates a user.
func (s *MemoryStore) SaveUser(user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return nil
}

// HasUserEmail reports whether an account with the email exists.
func (s *MemoryStore) HasUserEmail(email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[strings.TrimSpace(strings.ToLower(email))]
	return ok, nil
}

// GetUserByEmail fetches a user by email.
func (s *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.TrimSpace(strings.ToLower(email))]
	if !ok {
		return domain.User{}, false, nil
	}
	user, ok := s.users[id]
	return user, ok, nil
}

// GetUserByID fetches a user by id.
func (s *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok, nil
}
