package factory

import (
	"sync"
	"time"

	"github.com/dropfour/dropfour/internal/dependencies/mocks"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/protocol"
	"github.com/dropfour/dropfour/internal/services/invite"
	"github.com/dropfour/dropfour/internal/services/match"
	"github.com/dropfour/dropfour/internal/storage/memory"
	"github.com/dropfour/dropfour/internal/testutil"
)

// CaptureSink records frames per connection instead of writing to sockets.
// Safe for concurrent use; the scheduler sends from its own goroutine.
type CaptureSink struct {
	mu     sync.Mutex
	frames map[model.ConnID][]protocol.ServerMessage
}

// NewCaptureSink creates an empty capture sink
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{frames: make(map[model.ConnID][]protocol.ServerMessage)}
}

// Send records the frame
func (c *CaptureSink) Send(id model.ConnID, msg protocol.ServerMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[id] = append(c.frames[id], msg)
	return true
}

// Frames returns a snapshot of everything sent to the connection
func (c *CaptureSink) Frames(id model.ConnID) []protocol.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.ServerMessage, len(c.frames[id]))
	copy(out, c.frames[id])
	return out
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Sink      *CaptureSink
}

// NewTestApp creates an App configured for testing with mocked dependencies
// and a capturing sink in place of real sockets. The countdown is one second
// at ten ticks per second.
func NewTestApp(names []string) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	sink := NewCaptureSink()
	inviteCfg := invite.Config{TTL: 30 * time.Second}
	matchCfg := match.Config{CountdownSeconds: 1, TickRate: 10}
	store := memory.New(time.Minute)

	app := newWithDependencies(names, store, mockClock, sink, matchCfg, inviteCfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Sink:      sink,
	}
}
