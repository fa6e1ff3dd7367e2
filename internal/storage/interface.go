package storage

import (
	"context"

	"github.com/dropfour/dropfour/internal/model"
)

// InviteStore holds live invitations keyed by origin. Entries carry a TTL so
// an invitation can never outlive its timeout even if the watchdog is lost.
// At most one invitation exists per origin; Put overwrites.
type InviteStore interface {
	// Put records an invitation, superseding any prior one from the same origin
	Put(ctx context.Context, inv *model.Invitation) error

	// Get returns the pending invitation from the given origin, or
	// model.ErrInvitationNotFound
	Get(ctx context.Context, origin model.PlayerName) (*model.Invitation, error)

	// Delete clears the invitation from the given origin, if any
	Delete(ctx context.Context, origin model.PlayerName) error

	// DeleteByPlayer clears every invitation in which the named player is
	// origin or target, returning the cleared invitations
	DeleteByPlayer(ctx context.Context, name model.PlayerName) ([]*model.Invitation, error)
}
