package session

import (
	"sync"

	"github.com/jinzhu/copier"
)

// User is the logged in account as the backend reports it.
type User struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	AssistantName  string   `json:"assistantName"`
	AssistantImage string   `json:"assistantImage"`
	History        []string `json:"history"`
}

// Store holds the current user. Readers get deep copies, so a snapshot never
// changes under them.
type Store struct {
	mu   sync.RWMutex
	user *User
}

func (s *Store) Set(user User) {
	var stored User
	if err := copier.CopyWithOption(&stored, &user, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy user", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &stored
}

// Current returns a copy of the current user, or false when nobody is logged
// in.
func (s *Store) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	var snapshot User
	if err := copier.CopyWithOption(&snapshot, s.user, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy user", "error", err)
		return User{}, false
	}
	return snapshot, true
}

// AppendHistory records a transcript the assistant answered.
func (s *Store) AppendHistory(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		s.user.History = append(s.user.History, entry)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
