package notify

import (
	"slices"
	"sync"

	"github.com/gosuda/unistay/internal/messenger"
)

// Registry is a map-based MessengerRegistry, safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	messengers map[string]messenger.Messenger
}

// NewRegistry creates a Registry holding the given messengers keyed by their
// Platform().
func NewRegistry(ms ...messenger.Messenger) *Registry {
	r := &Registry{
		messengers: make(map[string]messenger.Messenger, len(ms)),
	}
	for _, m := range ms {
		r.Register(m.Platform(), m)
	}
	return r
}

// Register adds a messenger for the given platform name.
func (r *Registry) Register(platform string, m messenger.Messenger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messengers[platform] = m
}

// Get returns the messenger for the given platform, or false if not registered.
func (r *Registry) Get(platform string) (messenger.Messenger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messengers[platform]
	return m, ok
}

// Platforms lists registered platform names in sorted order.
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.messengers))
	for p := range r.messengers {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
