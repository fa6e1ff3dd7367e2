// Package identity maps live connections to reusable display names drawn
// from a finite seed pool.
package identity

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/model"
)

// Registry binds connection handles to display names. Freed names return to
// the pool; when the pool runs dry it refills from the seed list, skipping
// names still bound, so reuse wraps instead of growing without bound.
type Registry struct {
	mu        sync.RWMutex
	seed      []string
	available []string // FIFO queue of free names
	byConn    map[model.ConnID]model.PlayerName
	byName    map[model.PlayerName]model.ConnID
	order     []model.PlayerName // roster in registration order
	logger    *zap.Logger
}

// NewRegistry creates a registry over the given seed name pool
func NewRegistry(seed []string, logger *zap.Logger) *Registry {
	names := make([]string, len(seed))
	copy(names, seed)

	available := make([]string, len(seed))
	copy(available, seed)

	return &Registry{
		seed:      names,
		available: available,
		byConn:    make(map[model.ConnID]model.PlayerName),
		byName:    make(map[model.PlayerName]model.ConnID),
		logger:    logger,
	}
}

// Register pops a name from the pool and binds it to the connection. It
// fails only when the seed list itself is empty.
func (r *Registry) Register(conn model.ConnID) (model.PlayerName, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.seed) == 0 {
		return "", model.ErrNamePoolEmpty
	}
	if name, ok := r.byConn[conn]; ok {
		return name, nil
	}

	name := r.nextFree()
	r.byConn[conn] = name
	r.byName[name] = conn
	r.order = append(r.order, name)

	r.logger.Info("client registered",
		zap.String("name", string(name)),
		zap.Int("online", len(r.byConn)),
	)
	return name, nil
}

// nextFree pops names off the queue until an unbound one turns up, refilling
// from the seed list when the queue empties. If every seed name is bound, a
// generation suffix keeps names unique.
func (r *Registry) nextFree() model.PlayerName {
	for {
		for len(r.available) > 0 {
			candidate := model.PlayerName(r.available[0])
			r.available = r.available[1:]
			if _, bound := r.byName[candidate]; !bound {
				return candidate
			}
		}

		refilled := false
		for _, n := range r.seed {
			if _, bound := r.byName[model.PlayerName(n)]; !bound {
				r.available = append(r.available, n)
				refilled = true
			}
		}
		if refilled {
			continue
		}

		for gen := 2; ; gen++ {
			for _, n := range r.seed {
				candidate := model.PlayerName(fmt.Sprintf("%s %d", n, gen))
				if _, bound := r.byName[candidate]; !bound {
					return candidate
				}
			}
		}
	}
}

// Unregister removes the binding and returns the freed name to the pool
func (r *Registry) Unregister(conn model.ConnID) (model.PlayerName, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.byConn[conn]
	if !ok {
		return "", false
	}

	delete(r.byConn, conn)
	delete(r.byName, name)
	r.available = append(r.available, string(name))

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info("client unregistered",
		zap.String("name", string(name)),
		zap.Int("online", len(r.byConn)),
	)
	return name, true
}

// NameOf returns the name bound to the connection
func (r *Registry) NameOf(conn model.ConnID) (model.PlayerName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byConn[conn]
	return name, ok
}

// ConnOf returns the connection bound to the name
func (r *Registry) ConnOf(name model.PlayerName) (model.ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byName[name]
	return conn, ok
}

// IsConnected reports whether the named player has a live connection
func (r *Registry) IsConnected(name model.PlayerName) bool {
	_, ok := r.ConnOf(name)
	return ok
}

// Names returns the roster snapshot in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, n := range r.order {
		names[i] = string(n)
	}
	return names
}
