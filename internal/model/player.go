package model

import "time"

// PlayerName is the display name bound to a live connection. Names come from
// a finite seed pool and are returned to it on disconnect.
type PlayerName string

// ConnID is the opaque handle the gateway assigns to a connection.
type ConnID string

// Invitation is a pending one-directional match request. At most one
// outstanding invitation exists per origin; a newer invite supersedes it.
type Invitation struct {
	Origin    PlayerName `json:"origin"`
	Target    PlayerName `json:"target"`
	CreatedAt time.Time  `json:"created_at"`
}
