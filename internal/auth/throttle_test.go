package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestThrottle(maxAttempts int, window time.Duration) (*LoginThrottle, *time.Time) {
	throttle := NewLoginThrottle(maxAttempts, window)
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	throttle.now = func() time.Time { return now }
	return throttle, &now
}

func TestThrottleLocksAtLimit(t *testing.T) {
	throttle, _ := newTestThrottle(5, 5*time.Minute)

	for i := 0; i < 4; i++ {
		throttle.RecordFailure("10.0.0.1")
		assert.False(t, throttle.Locked("10.0.0.1"))
	}
	throttle.RecordFailure("10.0.0.1")
	assert.True(t, throttle.Locked("10.0.0.1"))

	// other addresses are tracked independently
	assert.False(t, throttle.Locked("10.0.0.2"))
}

func TestThrottleUnlocksAfterWindow(t *testing.T) {
	throttle, now := newTestThrottle(5, 5*time.Minute)

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("10.0.0.1")
	}
	assert.True(t, throttle.Locked("10.0.0.1"))

	*now = now.Add(5*time.Minute - time.Second)
	assert.True(t, throttle.Locked("10.0.0.1"))

	*now = now.Add(2 * time.Second)
	assert.False(t, throttle.Locked("10.0.0.1"))
}

func TestThrottleFailureDuringLockoutExtendsIt(t *testing.T) {
	throttle, now := newTestThrottle(5, 5*time.Minute)

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("10.0.0.1")
	}
	*now = now.Add(4 * time.Minute)
	throttle.RecordFailure("10.0.0.1")

	*now = now.Add(2 * time.Minute)
	assert.True(t, throttle.Locked("10.0.0.1"))
}

func TestThrottleResetClearsRecord(t *testing.T) {
	throttle, _ := newTestThrottle(5, 5*time.Minute)

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("10.0.0.1")
	}
	assert.True(t, throttle.Locked("10.0.0.1"))

	throttle.Reset("10.0.0.1")
	assert.False(t, throttle.Locked("10.0.0.1"))

	// the count restarts from zero
	for i := 0; i < 4; i++ {
		throttle.RecordFailure("10.0.0.1")
	}
	assert.False(t, throttle.Locked("10.0.0.1"))
}
