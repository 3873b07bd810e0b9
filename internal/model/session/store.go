package session

import (
	"sort"
	"sync"
)

// Store exposes session persistence. Sessions are never deleted; they are
// mutated only by status updates and history appends.
type Store interface {
	Insert(s Session)
	List(userID string) []Session
	FindByID(id string) (Session, bool)
	UpdateStatus(id, status string) bool
	AppendTurn(id string, turn Turn) bool
}

// MemoryStore implements Store with an in-memory map.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Session)}
}

// Insert stores a session keyed by its ID.
func (s *MemoryStore) Insert(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sess.ID] = sess
}

// List returns the user's sessions ordered by creation time, newest first.
func (s *MemoryStore) List(userID string) []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Session, 0, len(s.items))
	for _, sess := range s.items {
		if sess.UserID == userID {
			result = append(result, copySession(sess))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// FindByID looks up a session by identifier.
func (s *MemoryStore) FindByID(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[id]
	if !ok {
		return Session{}, false
	}
	return copySession(sess), true
}

// UpdateStatus overwrites the session status, reporting whether the session
// exists.
func (s *MemoryStore) UpdateStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return false
	}
	sess.Status = status
	s.items[id] = sess
	return true
}

// AppendTurn atomically appends one turn to the session's history. Concurrent
// appends for the same session never lose entries, though their relative
// order is whichever caller takes the lock first.
func (s *MemoryStore) AppendTurn(id string, turn Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return false
	}
	sess.ConversationHistory = append(sess.ConversationHistory, turn)
	s.items[id] = sess
	return true
}

func copySession(sess Session) Session {
	history := make([]Turn, len(sess.ConversationHistory))
	copy(history, sess.ConversationHistory)
	sess.ConversationHistory = history
	return sess
}
