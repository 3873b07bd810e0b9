package voice

import "sync"

// Store exposes voice profile persistence.
type Store interface {
	Insert(p Profile)
	List(userID string) []Profile
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Profile
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert stores a voice profile.
func (s *MemoryStore) Insert(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
}

// List returns the user's voice profiles in upload order.
func (s *MemoryStore) List(userID string) []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Profile, 0, len(s.items))
	for _, p := range s.items {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result
}
