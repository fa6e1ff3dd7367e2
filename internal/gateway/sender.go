package gateway

import (
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/protocol"
	"github.com/dropfour/dropfour/internal/services/identity"
	"github.com/dropfour/dropfour/internal/services/invite"
)

// Sink is where encoded frames go. The hub implements it; tests substitute
// a recorder.
type Sink interface {
	Send(id model.ConnID, msg protocol.ServerMessage) bool
}

// Sender resolves player names to connections and pushes frames to them.
// It is the delivery half of the gateway: the broadcast scheduler and the
// invitation service both address players by name.
type Sender struct {
	registry *identity.Registry
	sink     Sink
}

// NewSender creates a sender over the given registry and sink
func NewSender(registry *identity.Registry, sink Sink) *Sender {
	return &Sender{registry: registry, sink: sink}
}

// Send pushes a frame to the named player's connection
func (s *Sender) Send(name model.PlayerName, msg protocol.ServerMessage) bool {
	conn, ok := s.registry.ConnOf(name)
	if !ok {
		return false
	}
	return s.sink.Send(conn, msg)
}

// NotifyInvitation delivers an invitation lifecycle notice
func (s *Sender) NotifyInvitation(to model.PlayerName, kind invite.NoticeKind, counterpart model.PlayerName) bool {
	return s.Send(to, protocol.NewInvitation(string(counterpart), string(kind)))
}
