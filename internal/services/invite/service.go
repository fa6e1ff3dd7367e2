// Package invite handles the matchmaking handshake: delivering, recording,
// accepting, rejecting, and expiring invitations between connected players.
package invite

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/dependencies/clock"
	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/storage"
)

// NoticeKind classifies an invitation notice for delivery
type NoticeKind string

const (
	NoticeReceived NoticeKind = "received"
	NoticeAccepted NoticeKind = "accepted"
	NoticeRejected NoticeKind = "rejected"
)

// Presence answers whether a player is currently connected
type Presence interface {
	IsConnected(name model.PlayerName) bool
}

// Binding answers whether a player already has an active session
type Binding interface {
	IsBound(name model.PlayerName) bool
}

// Notifier delivers an invitation notice to a player's connection. A false
// return means the recipient cannot be reached right now.
type Notifier interface {
	NotifyInvitation(to model.PlayerName, kind NoticeKind, counterpart model.PlayerName) bool
}

// Config holds invitation timing settings
type Config struct {
	// TTL bounds how long a pending invitation stays acceptable
	TTL time.Duration
}

// DefaultConfig returns the standard invitation timing
func DefaultConfig() Config {
	return Config{TTL: 30 * time.Second}
}

// Service owns the invitation lifecycle. Each origin has at most one
// outbound invitation pending; a newer one supersedes it.
type Service struct {
	store    storage.InviteStore
	presence Presence
	binding  Binding
	notifier Notifier
	clock    clock.Clock
	cfg      Config
	logger   *zap.Logger
}

// NewService creates an invitation service
func NewService(
	store storage.InviteStore,
	presence Presence,
	binding Binding,
	notifier Notifier,
	clk clock.Clock,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:    store,
		presence: presence,
		binding:  binding,
		notifier: notifier,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
	}
}

// Invite sends an invitation from origin to target. The notice is delivered
// first; only a delivered invitation is recorded, so nothing acceptable ever
// exists that the target never saw. A watchdog reports the timeout back to
// the origin if the invitation is still pending when the TTL lapses.
func (s *Service) Invite(ctx context.Context, origin, target model.PlayerName) error {
	if origin == target {
		return model.ErrSelfInvite
	}
	if !s.presence.IsConnected(target) {
		return model.ErrTargetUnavailable
	}
	if s.binding.IsBound(target) {
		return model.ErrTargetUnavailable
	}

	if !s.notifier.NotifyInvitation(target, NoticeReceived, origin) {
		return model.ErrDeliveryFailed
	}

	inv := &model.Invitation{
		Origin:    origin,
		Target:    target,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.Put(ctx, inv); err != nil {
		return err
	}

	s.logger.Info("invitation sent",
		zap.String("origin", string(origin)),
		zap.String("target", string(target)),
	)

	created := inv.CreatedAt
	s.clock.AfterFunc(s.cfg.TTL, func() {
		s.expire(origin, created)
	})
	return nil
}

// Accept consumes the pending invitation from origin to target and returns
// it. The acceptor must be free; the origin's own binding is checked by the
// session directory when the match is created.
func (s *Service) Accept(ctx context.Context, target, origin model.PlayerName) (*model.Invitation, error) {
	if s.binding.IsBound(target) {
		return nil, model.ErrAlreadyInSession
	}

	inv, err := s.lookup(ctx, origin, target)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, origin); err != nil {
		return nil, err
	}

	s.logger.Info("invitation accepted",
		zap.String("origin", string(origin)),
		zap.String("target", string(target)),
	)
	return inv, nil
}

// Reject consumes the pending invitation from origin to target and tells
// the origin.
func (s *Service) Reject(ctx context.Context, target, origin model.PlayerName) error {
	if _, err := s.lookup(ctx, origin, target); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, origin); err != nil {
		return err
	}

	s.notifier.NotifyInvitation(origin, NoticeRejected, target)

	s.logger.Info("invitation rejected",
		zap.String("origin", string(origin)),
		zap.String("target", string(target)),
	)
	return nil
}

// HandleDisconnect purges every pending invitation the leaver sent or
// received. Origins whose invitation targeted the leaver get a rejection
// notice so they know to move on.
func (s *Service) HandleDisconnect(ctx context.Context, name model.PlayerName) {
	cleared, err := s.store.DeleteByPlayer(ctx, name)
	if err != nil {
		s.logger.Warn("purging invitations on disconnect",
			zap.String("player", string(name)),
			zap.Error(err),
		)
		return
	}

	for _, inv := range cleared {
		if inv.Target == name {
			s.notifier.NotifyInvitation(inv.Origin, NoticeRejected, inv.Target)
		}
	}
}

// lookup fetches the origin's pending invitation and checks it is addressed
// to target
func (s *Service) lookup(ctx context.Context, origin, target model.PlayerName) (*model.Invitation, error) {
	inv, err := s.store.Get(ctx, origin)
	if err != nil {
		if errors.Is(err, model.ErrInvitationNotFound) {
			return nil, model.ErrNoMatchingInvitation
		}
		return nil, err
	}
	if inv.Target != target {
		return nil, model.ErrNoMatchingInvitation
	}
	return inv, nil
}

// expire notifies the origin that a still-pending invitation timed out. The
// creation time pins the check to the invitation the watchdog was armed for;
// a superseding invitation makes the stale firing a no-op. The origin gets a
// rejection notice, which lets it retry.
func (s *Service) expire(origin model.PlayerName, created time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inv, err := s.store.Get(ctx, origin)
	if err != nil {
		// Already consumed, or evicted by the store's own TTL
		return
	}
	if !inv.CreatedAt.Equal(created) {
		return
	}

	if err := s.store.Delete(ctx, origin); err != nil {
		s.logger.Warn("deleting expired invitation",
			zap.String("origin", string(origin)),
			zap.Error(err),
		)
	}

	s.notifier.NotifyInvitation(origin, NoticeRejected, inv.Target)

	s.logger.Info("invitation expired",
		zap.String("origin", string(origin)),
		zap.String("target", string(inv.Target)),
	)
}
