package activity

import (
	"fmt"
	"sync"
)

// Registry maps session keys to trackers. It is an explicit, lifecycle-
// scoped store: the owner of a task's execution session constructs it,
// hands it to collaborators, and tears it down. There is no ambient
// package-level instance.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{trackers: make(map[string]*Tracker)}
}

// Key builds the canonical session key.
func Key(taskID, sessionID string) string {
	return fmt.Sprintf("%s_%s", taskID, sessionID)
}

// Get returns the tracker for (taskID, sessionID), creating it on first
// access.
func (r *Registry) Get(taskID, sessionID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(taskID, sessionID)
	t, ok := r.trackers[key]
	if !ok {
		t = NewTracker(taskID, sessionID)
		r.trackers[key] = t
	}
	return t
}

// Lookup returns the tracker if it exists, without creating one.
func (r *Registry) Lookup(taskID, sessionID string) (*Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[Key(taskID, sessionID)]
	return t, ok
}

// Remove drops a session's tracker.
func (r *Registry) Remove(taskID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, Key(taskID, sessionID))
}

// Len returns the number of live trackers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}
