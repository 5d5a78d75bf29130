package storage

import (
	"sync"

	"portal-chat/contract"
)

type subscriber struct {
	path string
	fn   func(contract.Snapshot)
}

type Set map[contract.Subscription]struct{}

// Registry tracks live push subscriptions per store path.
type Registry struct {
	mu     sync.RWMutex
	next   contract.Subscription
	subs   map[contract.Subscription]subscriber
	byPath map[string]Set
}

func NewRegistry() *Registry {
	return &Registry{
		subs:   make(map[contract.Subscription]subscriber),
		byPath: make(map[string]Set),
	}
}

// Subscribe registers a callback for a path and returns its handle.
// If the path has no subscribers yet, its set is initialized on the fly.
func (r *Registry) Subscribe(path string, fn func(contract.Snapshot)) contract.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	sub := r.next
	r.subs[sub] = subscriber{path: path, fn: fn}

	if _, ok := r.byPath[path]; !ok {
		r.byPath[path] = make(Set)
	}
	r.byPath[path][sub] = struct{}{}
	return sub
}

// Unsubscribe detaches a handle. It cleans up the subscriber entry and
// ensures no empty sets are left in the path map to prevent memory
// leaks over time. Unknown handles are ignored.
func (r *Registry) Unsubscribe(sub contract.Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.subs[sub]
	if !ok {
		return
	}
	delete(r.subs, sub)

	if subs, ok := r.byPath[entry.path]; ok {
		delete(subs, sub)

		// If no one listens to the path anymore, remove the entry entirely
		if len(subs) == 0 {
			delete(r.byPath, entry.path)
		}
	}
}

// ForPath retrieves all active callbacks for a path.
// Returns nil if the path has no subscribers.
func (r *Registry) ForPath(path string) []func(contract.Snapshot) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs, ok := r.byPath[path]
	if !ok {
		return nil
	}
	var fns []func(contract.Snapshot)
	for sub := range subs {
		if entry, exists := r.subs[sub]; exists {
			fns = append(fns, entry.fn)
		}
	}
	return fns
}
