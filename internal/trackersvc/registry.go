// Package trackersvc implements the tracker half of the swarm: a
// liveness registry and the TCP server that dispatches requests against it.
package trackersvc

import (
	"sync"
	"time"
)

// ExpireSeconds is how long a peer's last heartbeat stays live (spec.md §3).
const ExpireSeconds = 5.0

// Registry maps a peer's listening address to the time it was last seen
// (via Join or ActiveProof). A single mutex guards the whole map; every
// critical section is a point upsert, a key snapshot, or a sweep pass.
type Registry struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lastSeen: make(map[string]time.Time)}
}

// Upsert records addr as seen at now. Join and ActiveProof are both
// idempotent upserts; the registry never distinguishes them (spec.md §3).
func (r *Registry) Upsert(addr string, now time.Time) {
	r.mu.Lock()
	r.lastSeen[addr] = now
	r.mu.Unlock()
}

// Snapshot returns every currently-registered address, in no particular
// order, regardless of how close to expiry its heartbeat is. The lock is
// held only long enough to copy the keys.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	addrs := make([]string, 0, len(r.lastSeen))
	for addr := range r.lastSeen {
		addrs = append(addrs, addr)
	}
	r.mu.Unlock()

	return addrs
}

// Sweep removes every entry whose last heartbeat is at least ExpireSeconds
// old as of now. Called periodically by the expiry sweeper.
func (r *Registry) Sweep(now time.Time) (expired []string) {
	r.mu.Lock()
	for addr, seen := range r.lastSeen {
		if now.Sub(seen).Seconds() >= ExpireSeconds {
			delete(r.lastSeen, addr)
			expired = append(expired, addr)
		}
	}
	r.mu.Unlock()

	return expired
}
