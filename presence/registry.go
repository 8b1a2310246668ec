package presence

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle is the write side of an active realtime connection.
type Handle interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Registry tracks which users are currently reachable for push
// delivery. It is constructed once in main and injected everywhere it
// is needed; it holds no persistent state and starts empty on every
// process restart.
//
// Known limitation: one handle per user. A second connection from the
// same user (another tab or device) overwrites the first, so pushes
// stop reaching the earlier session.
type Registry struct {
	mu      sync.RWMutex
	handles map[uuid.UUID]Handle
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[uuid.UUID]Handle)}
}

// Register inserts or overwrites the handle for userID.
func (r *Registry) Register(userID uuid.UUID, h Handle) {
	r.mu.Lock()
	r.handles[userID] = h
	r.mu.Unlock()
}

// Unregister removes the entry for userID. Removing an absent entry is
// a no-op. When current is non-nil the entry is only removed if it
// still points at that handle, so a disconnect of a stale connection
// cannot evict a newer one.
func (r *Registry) Unregister(userID uuid.UUID, current Handle) {
	r.mu.Lock()
	if h, ok := r.handles[userID]; ok && (current == nil || h == current) {
		delete(r.handles, userID)
	}
	r.mu.Unlock()
}

// Lookup returns the handle for userID. Absence means offline and is
// the normal case, not an error.
func (r *Registry) Lookup(userID uuid.UUID) (Handle, bool) {
	r.mu.RLock()
	h, ok := r.handles[userID]
	r.mu.RUnlock()
	return h, ok
}

// Online returns a snapshot of all registered user IDs.
func (r *Registry) Online() []uuid.UUID {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	return ids
}

// Snapshot returns registered users together with their handles, for
// callers that need to touch every live connection (the stale sweep).
func (r *Registry) Snapshot() map[uuid.UUID]Handle {
	r.mu.RLock()
	out := make(map[uuid.UUID]Handle, len(r.handles))
	for id, h := range r.handles {
		out[id] = h
	}
	r.mu.RUnlock()
	return out
}
