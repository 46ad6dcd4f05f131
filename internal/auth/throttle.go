package auth

import (
	"sync"
	"time"
)

type attemptRecord struct {
	failures    int
	lastFailure time.Time
}

// LoginThrottle tracks failed login attempts per client network address and
// rejects further attempts once the limit is reached within the lockout
// window. The map is process-local and never evicted; the number of distinct
// addresses is assumed small. Lockout is per-address, not per-username, so a
// legitimate user behind a shared address is locked out together with the
// offender.
type LoginThrottle struct {
	mu          sync.Mutex
	attempts    map[string]attemptRecord
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewLoginThrottle builds a throttle with the given limits.
func NewLoginThrottle(maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &LoginThrottle{
		attempts:    make(map[string]attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Locked reports whether the address is currently locked out. It must be
// checked before credential verification so a locked-out caller learns
// nothing about credential correctness.
func (t *LoginThrottle) Locked(addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.attempts[addr]
	if !ok {
		return false
	}
	return rec.failures >= t.maxAttempts && t.now().Sub(rec.lastFailure) < t.window
}

// RecordFailure increments the failure counter for the address.
func (t *LoginThrottle) RecordFailure(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.attempts[addr]
	rec.failures++
	rec.lastFailure = t.now()
	t.attempts[addr] = rec
}

// Reset clears the failure record for the address after a successful login.
func (t *LoginThrottle) Reset(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, addr)
}
