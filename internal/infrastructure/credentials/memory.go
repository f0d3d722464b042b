package credentials

import (
	"context"
	"sort"
	"sync"

	"github.com/zowe/imperative-go/internal/application/ports"
)

// Ensure interface compliance
var _ ports.CredentialManager = (*MemoryManager)(nil)

// MemoryManager keeps credentials in process memory.
// Useful for testing and for sessions that must not touch disk.
type MemoryManager struct {
	name   string
	values map[string]string
	mu     sync.RWMutex
}

// NewMemoryManager creates an empty in-memory credential manager.
func NewMemoryManager(name string) *MemoryManager {
	if name == "" {
		name = KindMemory
	}
	return &MemoryManager{
		name:   name,
		values: make(map[string]string),
	}
}

// Name returns the display name used in secure value sentinels.
func (m *MemoryManager) Name() string {
	return m.name
}

// Initialized is always true.
func (m *MemoryManager) Initialized() bool {
	return true
}

// Save stores value under key.
func (m *MemoryManager) Save(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Load returns the value stored under key. A missing optional key yields
// an empty value.
func (m *MemoryManager) Load(ctx context.Context, key string, optional bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		if optional {
			return "", nil
		}
		return "", missingEntryError(key)
	}
	return value, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryManager) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Keys lists the stored keys in sorted order.
func (m *MemoryManager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
