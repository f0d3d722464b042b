package sensitivedata

import (
	"runtime"
	"sync"
)

// SecureString holds a high-value secret such as the vault identity. It
// never prints its value; Reveal returns it until Zero is called.
type SecureString struct {
	mu     sync.Mutex
	value  []byte
	zeroed bool
}

// NewSecureString copies s into a secure string that is zeroed when
// collected.
func NewSecureString(s string) *SecureString {
	ss := &SecureString{value: []byte(s)}
	runtime.SetFinalizer(ss, func(ss *SecureString) {
		ss.Zero()
	})
	return ss
}

// Reveal returns the secret, or false once it has been zeroed.
func (ss *SecureString) Reveal() (string, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.zeroed {
		return "", false
	}
	return string(ss.value), true
}

// String hides the value from fmt and slog.
func (ss *SecureString) String() string {
	return "[secure]"
}

// Zero overwrites the secret. Later calls to Reveal fail.
func (ss *SecureString) Zero() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for i := range ss.value {
		ss.value[i] = 0
	}
	ss.zeroed = true
}
