package match

import (
	"sync"

	"github.com/dropfour/dropfour/internal/model"
)

// Directory maps players to their active session. It enforces the invariant
// that a player name maps to at most one session at any time; both
// participants are mapped and unmapped atomically.
type Directory struct {
	mu       sync.RWMutex
	byID     map[model.SessionID]*Session
	byPlayer map[model.PlayerName]*Session
}

// NewDirectory creates an empty directory
func NewDirectory() *Directory {
	return &Directory{
		byID:     make(map[model.SessionID]*Session),
		byPlayer: make(map[model.PlayerName]*Session),
	}
}

// Add registers a session for both participants. It fails with
// model.ErrAlreadyBound if either already has a session, without mapping
// anything.
func (d *Directory) Add(s *Session) error {
	red, yellow := s.Players()

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, bound := d.byPlayer[red]; bound {
		return model.ErrAlreadyBound
	}
	if _, bound := d.byPlayer[yellow]; bound {
		return model.ErrAlreadyBound
	}

	d.byID[s.ID()] = s
	d.byPlayer[red] = s
	d.byPlayer[yellow] = s
	return nil
}

// Find returns the session involving the named player
func (d *Directory) Find(name model.PlayerName) (*Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.byPlayer[name]
	return s, ok
}

// Get returns the session with the given ID
func (d *Directory) Get(id model.SessionID) (*Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.byID[id]
	return s, ok
}

// IsBound reports whether the named player has an active session
func (d *Directory) IsBound(name model.PlayerName) bool {
	_, ok := d.Find(name)
	return ok
}

// Unbind drops one player's mapping while the session stays reachable by
// ID. Used when a participant disconnects: the freed name may be handed to
// a new connection before the finished session has delivered its final
// report, and the new holder must be bindable right away.
func (d *Directory) Unbind(name model.PlayerName) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byPlayer, name)
}

// Remove unmaps the session and both participants atomically. A player
// entry is only removed if it still points at this session; an unbound
// name may already belong to a newer one.
func (d *Directory) Remove(id model.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.byID[id]
	if !ok {
		return
	}

	red, yellow := s.Players()
	if d.byPlayer[red] == s {
		delete(d.byPlayer, red)
	}
	if d.byPlayer[yellow] == s {
		delete(d.byPlayer, yellow)
	}
	delete(d.byID, id)
}

// Active returns a snapshot of all current sessions
func (d *Directory) Active() []*Session {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sessions := make([]*Session, 0, len(d.byID))
	for _, s := range d.byID {
		sessions = append(sessions, s)
	}
	return sessions
}

// Len returns the number of active sessions
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
