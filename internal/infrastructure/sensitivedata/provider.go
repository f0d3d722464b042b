// Package sensitivedata keeps track of secret values, such as the secure
// fields of loaded profiles and the vault identity, so they can be removed
// from anything shown to the user.
package sensitivedata

import (
	"sort"
	"sync"
)

// minTrackedLength is the shortest value worth scrubbing. Shorter values
// would match ordinary text.
const minTrackedLength = 3

// Provider implements ports.SensitiveValueProvider. Each value is kept once,
// however many times the profile holding it is loaded.
type Provider struct {
	mu     sync.RWMutex
	seen   map[string]struct{}
	values []string
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{seen: make(map[string]struct{})}
}

// Track registers a value to be scrubbed.
func (p *Provider) Track(value string) {
	if len(value) < minTrackedLength {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.seen[value]; ok {
		return
	}
	p.seen[value] = struct{}{}
	p.values = append(p.values, value)
	// Longest first, so a secret is replaced before any secret it contains.
	sort.SliceStable(p.values, func(i, j int) bool {
		return len(p.values[i]) > len(p.values[j])
	})
}

// AllValues returns a copy of the tracked values, longest first.
func (p *Provider) AllValues() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.values))
	copy(out, p.values)
	return out
}

// Len returns the number of tracked values.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}
