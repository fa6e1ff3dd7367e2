package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// AfterFunc runs f after d has elapsed. Callers must tolerate stale
	// firings; there is no way to stop a scheduled func.
	AfterFunc(d time.Duration, f func())
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on its own goroutine after d has elapsed
func (c *RealClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Since returns the elapsed time relative to the given clock
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}
