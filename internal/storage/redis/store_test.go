package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/dropfour/dropfour/internal/model"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.InviteTTL = 30 * time.Second

	s.store = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StoreSuite) TestPutAndGet() {
	inv := &model.Invitation{Origin: "Amber", Target: "Ruby", CreatedAt: time.Now().UTC()}

	err := s.store.Put(s.ctx, inv)
	s.Require().NoError(err)

	got, err := s.store.Get(s.ctx, "Amber")
	s.Require().NoError(err)
	s.Equal(inv.Origin, got.Origin)
	s.Equal(inv.Target, got.Target)
}

func (s *StoreSuite) TestGetNotFound() {
	_, err := s.store.Get(s.ctx, "Nobody")
	s.ErrorIs(err, model.ErrInvitationNotFound)
}

func (s *StoreSuite) TestPutSupersedesPriorInvitation() {
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Amber", Target: "Ruby"})
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Amber", Target: "Jade"})

	got, err := s.store.Get(s.ctx, "Amber")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Jade"), got.Target)
}

func (s *StoreSuite) TestEntriesCarryTTL() {
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Amber", Target: "Ruby"})

	ttl := s.mini.TTL(inviteKey("Amber"))
	s.True(ttl > 0, "invitation should have a TTL")

	s.mini.FastForward(31 * time.Second)
	_, err := s.store.Get(s.ctx, "Amber")
	s.ErrorIs(err, model.ErrInvitationNotFound)
}

func (s *StoreSuite) TestDelete() {
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Amber", Target: "Ruby"})

	err := s.store.Delete(s.ctx, "Amber")
	s.Require().NoError(err)

	_, err = s.store.Get(s.ctx, "Amber")
	s.ErrorIs(err, model.ErrInvitationNotFound)
}

func (s *StoreSuite) TestDeleteByPlayerClearsBothDirections() {
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Amber", Target: "Ruby"})
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Jade", Target: "Amber"})
	_ = s.store.Put(s.ctx, &model.Invitation{Origin: "Opal", Target: "Ruby"})

	cleared, err := s.store.DeleteByPlayer(s.ctx, "Amber")
	s.Require().NoError(err)
	s.Len(cleared, 2)

	_, err = s.store.Get(s.ctx, "Amber")
	s.ErrorIs(err, model.ErrInvitationNotFound)
	_, err = s.store.Get(s.ctx, "Jade")
	s.ErrorIs(err, model.ErrInvitationNotFound)

	// Unrelated invitation stays
	got, err := s.store.Get(s.ctx, "Opal")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("Ruby"), got.Target)
}
