// Package gateway is the connection boundary: it upgrades sockets, decodes
// client frames, routes them to the services, and delivers server frames.
package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/protocol"
	"github.com/dropfour/dropfour/internal/services/identity"
	"github.com/dropfour/dropfour/internal/services/invite"
	"github.com/dropfour/dropfour/internal/services/match"
)

// Dispatcher routes decoded client messages to the services and pushes the
// resulting frames. Rule violations go back to the offending client as
// error frames; they never close the connection.
type Dispatcher struct {
	registry *identity.Registry
	invites  *invite.Service
	matches  *match.Service
	sender   *Sender
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(
	registry *identity.Registry,
	invites *invite.Service,
	matches *match.Service,
	sender *Sender,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		invites:  invites,
		matches:  matches,
		sender:   sender,
		logger:   logger,
	}
}

// OnConnect assigns the new connection a name and announces the updated
// roster to everyone
func (d *Dispatcher) OnConnect(_ context.Context, conn model.ConnID) (model.PlayerName, error) {
	name, err := d.registry.Register(conn)
	if err != nil {
		return "", err
	}
	d.broadcastRoster()
	return name, nil
}

// OnDisconnect releases the leaver's name, purges their invitations,
// settles their match, and announces the updated roster
func (d *Dispatcher) OnDisconnect(ctx context.Context, conn model.ConnID) {
	name, ok := d.registry.Unregister(conn)
	if !ok {
		return
	}

	d.invites.HandleDisconnect(ctx, name)

	// The remaining player hears about the leave immediately; the terminal
	// result follows on the next scheduler tick
	if _, winner, changed := d.matches.HandleDisconnect(name); changed {
		d.sender.Send(winner, protocol.NewOpponentDisconnected(string(name)))
	}

	d.broadcastRoster()
}

// HandleMessage decodes and routes one inbound frame
func (d *Dispatcher) HandleMessage(ctx context.Context, conn model.ConnID, raw []byte) {
	name, ok := d.registry.NameOf(conn)
	if !ok {
		return
	}

	// Protocol errors are logged and the frame dropped; only rule
	// violations are answered with an error frame
	msg, err := protocol.DecodeClientMessage(raw)
	if err != nil {
		d.logger.Warn("dropping malformed frame",
			zap.String("player", string(name)),
			zap.Error(err),
		)
		return
	}

	switch m := msg.(type) {
	case protocol.Ready:
		names := d.registry.Names()
		d.sender.Send(name, protocol.NewClients(string(name), names))

	case protocol.Invite:
		if err := d.invites.Invite(ctx, name, model.PlayerName(m.Opponent)); err != nil {
			d.sendError(name, err)
		}

	case protocol.AcceptInvite:
		d.accept(ctx, name, model.PlayerName(m.From))

	case protocol.RejectInvite:
		if err := d.invites.Reject(ctx, name, model.PlayerName(m.From)); err != nil {
			d.sendError(name, err)
		}

	case protocol.Play:
		d.play(name, m.Col)
	}
}

// accept consumes the invitation, starts the match, and tells the origin.
// The session is created before the origin hears "accepted" so the notice
// never precedes a match that failed to start.
func (d *Dispatcher) accept(ctx context.Context, name, origin model.PlayerName) {
	inv, err := d.invites.Accept(ctx, name, origin)
	if err != nil {
		d.sendError(name, err)
		return
	}

	if _, err := d.matches.Create(inv.Origin, name); err != nil {
		d.sendError(name, err)
		return
	}

	d.sender.NotifyInvitation(inv.Origin, invite.NoticeAccepted, name)
}

// play applies the move and pushes fresh snapshots to both participants, so
// the move is visible without waiting for the next scheduler tick
func (d *Dispatcher) play(name model.PlayerName, col int) {
	sess, ok := d.matches.Find(name)
	if !ok {
		d.sendError(name, model.ErrSessionNotFound)
		return
	}

	if err := sess.Play(name, col); err != nil {
		d.sendError(name, err)
		return
	}

	roster := d.registry.Names()
	red, yellow := sess.Players()
	for _, p := range [2]model.PlayerName{red, yellow} {
		view := sess.View(p)
		d.sender.Send(p, protocol.NewServerData(string(p), roster, &view))
	}
}

// broadcastRoster pushes the player list to every registered player
func (d *Dispatcher) broadcastRoster() {
	names := d.registry.Names()
	for _, n := range names {
		d.sender.Send(model.PlayerName(n), protocol.NewClients(n, names))
	}
}

func (d *Dispatcher) sendError(name model.PlayerName, err error) {
	d.logger.Debug("rule violation",
		zap.String("player", string(name)),
		zap.Error(err),
	)
	d.sender.Send(name, protocol.NewError(err.Error()))
}
