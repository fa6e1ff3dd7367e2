package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrNamePoolEmpty  = errors.New("name seed pool is empty")
	ErrNotRegistered  = errors.New("connection is not registered")
	ErrPlayerNotFound = errors.New("player not found")

	// Invitation errors
	ErrSelfInvite           = errors.New("cannot invite yourself")
	ErrTargetUnavailable    = errors.New("target is not available")
	ErrDeliveryFailed       = errors.New("invitation could not be delivered")
	ErrNoMatchingInvitation = errors.New("no matching invitation")
	ErrInvitationNotFound   = errors.New("invitation not found")

	// Session errors
	ErrAlreadyInSession = errors.New("player is already in a session")
	ErrAlreadyBound     = errors.New("player is already bound to a session")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNotPlaying       = errors.New("session is not in the playing state")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrNotParticipant   = errors.New("player is not in this session")

	// Board errors
	ErrInvalidColumn = errors.New("column out of range")
	ErrColumnFull    = errors.New("column is full")
)
