package profile

import "sync"

// Store exposes profile persistence for handlers and the turn processor.
type Store interface {
	Insert(p Profile)
	List(userID string) []Profile
	FindByID(id string) (Profile, bool)
	Delete(id string) bool
}

// MemoryStore implements Store with an in-memory map, suitable for a
// single-process deployment.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Profile
	order []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Profile)}
}

// Insert stores a profile keyed by its ID.
func (s *MemoryStore) Insert(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.items[p.ID] = p
}

// List returns profiles owned by the given user in insertion order.
func (s *MemoryStore) List(userID string) []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Profile, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.items[id]; ok && p.UserID == userID {
			result = append(result, p)
		}
	}
	return result
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(id string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	return p, ok
}

// Delete removes a profile, reporting whether it existed. Sessions that
// reference the profile are untouched.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
