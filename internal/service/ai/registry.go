package ai

import (
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/standin-ai/meeting-backend/internal/model/profile"
)

// conversation is the live dialogue state for one session: the seed system
// prompt plus the accumulated turn history fed back to the model. It is never
// persisted and dies with the process.
type conversation struct {
	mu      sync.Mutex
	system  string
	history []*schema.Message
}

type registryEntry struct {
	conv     *conversation
	lastUsed uint64
}

// registry maps session IDs to conversation contexts. Creation is first
// write wins: a cache hit returns the existing context and ignores the
// profile argument, so a profile edited or deleted after first use keeps
// serving its original seed prompt. That staleness is deliberate; callers
// must not rely on edits reaching a session that has already spoken.
type registry struct {
	mu      sync.Mutex
	max     int
	clock   uint64
	entries map[string]*registryEntry
}

// newRegistry builds a registry holding at most max contexts; zero means
// unbounded.
func newRegistry(max int) *registry {
	return &registry{
		max:     max,
		entries: make(map[string]*registryEntry),
	}
}

// getOrCreate returns the session's context, creating it under the registry
// lock so concurrent first turns for one session yield exactly one context.
func (r *registry) getOrCreate(sessionID string, p profile.Profile) *conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock++
	if entry, ok := r.entries[sessionID]; ok {
		entry.lastUsed = r.clock
		return entry.conv
	}

	if r.max > 0 && len(r.entries) >= r.max {
		r.evictOldest()
	}

	conv := &conversation{system: buildSystemPrompt(p)}
	r.entries[sessionID] = &registryEntry{conv: conv, lastUsed: r.clock}
	return conv
}

// len reports the number of live contexts.
func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// evictOldest drops the least recently used context. Caller holds r.mu.
func (r *registry) evictOldest() {
	var (
		oldestID string
		oldest   uint64
		found    bool
	)
	for id, entry := range r.entries {
		if !found || entry.lastUsed < oldest {
			oldestID = id
			oldest = entry.lastUsed
			found = true
		}
	}
	if found {
		delete(r.entries, oldestID)
	}
}
