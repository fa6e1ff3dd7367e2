package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/storage"
)

// Store is an in-memory invitation store backed by a TTL cache. The cache
// janitor reaps entries whose timeout watchdog never fired.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// New creates an in-memory store whose entries expire after ttl
func New(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, ttl),
		ttl:   ttl,
	}
}

// Ensure Store implements the interface
var _ storage.InviteStore = (*Store)(nil)

func (s *Store) Put(_ context.Context, inv *model.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(string(inv.Origin), inv, s.ttl)
	return nil
}

func (s *Store) Get(_ context.Context, origin model.PlayerName) (*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(string(origin))
	if !ok {
		return nil, model.ErrInvitationNotFound
	}
	return v.(*model.Invitation), nil
}

func (s *Store) Delete(_ context.Context, origin model.PlayerName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(string(origin))
	return nil
}

func (s *Store) DeleteByPlayer(_ context.Context, name model.PlayerName) ([]*model.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cleared []*model.Invitation
	for key, item := range s.cache.Items() {
		inv := item.Object.(*model.Invitation)
		if inv.Origin == name || inv.Target == name {
			s.cache.Delete(key)
			cleared = append(cleared, inv)
		}
	}
	return cleared, nil
}
