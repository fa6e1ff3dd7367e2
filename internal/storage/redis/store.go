package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropfour/dropfour/internal/model"
	"github.com/dropfour/dropfour/internal/storage"
)

// Store is a Redis-backed invitation store. The TTL is enforced by Redis
// itself via SET EX.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store instance
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ storage.InviteStore = (*Store)(nil)

func (s *Store) Put(ctx context.Context, inv *model.Invitation) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, inviteKey(inv.Origin), data, s.cfg.InviteTTL).Err()
}

func (s *Store) Get(ctx context.Context, origin model.PlayerName) (*model.Invitation, error) {
	data, err := s.client.Get(ctx, inviteKey(origin)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrInvitationNotFound
		}
		return nil, err
	}

	var inv model.Invitation
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) Delete(ctx context.Context, origin model.PlayerName) error {
	return s.client.Del(ctx, inviteKey(origin)).Err()
}

func (s *Store) DeleteByPlayer(ctx context.Context, name model.PlayerName) ([]*model.Invitation, error) {
	var cleared []*model.Invitation

	iter := s.client.Scan(ctx, 0, invitePattern(), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between scan and get
			}
			return cleared, err
		}

		var inv model.Invitation
		if err := json.Unmarshal(data, &inv); err != nil {
			return cleared, err
		}

		if inv.Origin == name || inv.Target == name {
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return cleared, err
			}
			cleared = append(cleared, &inv)
		}
	}
	if err := iter.Err(); err != nil {
		return cleared, err
	}
	return cleared, nil
}
