package password

import (
	"errors"
	"sync"
	"time"
)

const (
	// MinLength is the shortest accepted temporary password
	MinLength = 5

	// DefaultTTL is how long a password stays active after being set
	DefaultTTL = 10 * time.Minute
)

// ErrTooShort is returned by Set for values below MinLength
var ErrTooShort = errors.New("password too short")

// Manager owns the single process-wide temporary password used to gate
// the self-service status upgrade. The value and its expiry timer always
// change together: setting restarts the timer, clearing cancels it, and
// expiry clears the value. The raw timer is never exposed.
type Manager struct {
	mu    sync.Mutex
	value string
	gen   uint64 // incremented on every Set; ties each timer to its arming
	timer *time.Timer
	ttl   time.Duration
}

// NewManager creates a manager with the given expiry duration.
// A non-positive ttl falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{ttl: ttl}
}

// Set stores a new password and (re)starts the expiry timer, canceling
// any previous one. Values shorter than MinLength are rejected without
// mutating state.
func (m *Manager) Set(value string) error {
	if len(value) < MinLength {
		return ErrTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.value = value
	m.gen++
	gen := m.gen
	m.timer = time.AfterFunc(m.ttl, func() {
		m.expire(gen)
	})
	return nil
}

// Clear unconditionally removes the password and cancels the timer
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// IsActive reports whether a password is currently set
func (m *Manager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value != ""
}

// Verify reports whether a password is active and input matches it
// exactly. The password is reusable until expiry or Clear.
func (m *Manager) Verify(input string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value != "" && m.value == input
}

// expire clears the value only if no Set re-armed the manager after the
// firing timer; a Set that raced the timer wins, even when it stored the
// same value again.
func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen {
		m.clearLocked()
	}
}

func (m *Manager) clearLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.value = ""
}
