package mocks

import (
	"time"

	"github.com/dropfour/dropfour/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing
type MockClock struct {
	CurrentTime time.Time
	timers      []mockTimer
}

type mockTimer struct {
	at time.Time
	f  func()
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// AfterFunc schedules f to fire when the mocked time reaches now+d
func (c *MockClock) AfterFunc(d time.Duration, f func()) {
	c.timers = append(c.timers, mockTimer{at: c.CurrentTime.Add(d), f: f})
}

// Advance moves the clock forward by the given duration, firing any
// scheduled funcs that come due
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
	c.fireDue()
}

// Set sets the clock to the given time, firing any scheduled funcs that
// come due
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
	c.fireDue()
}

func (c *MockClock) fireDue() {
	var remaining []mockTimer
	for _, t := range c.timers {
		if t.at.After(c.CurrentTime) {
			remaining = append(remaining, t)
			continue
		}
		t.f()
	}
	c.timers = remaining
}
