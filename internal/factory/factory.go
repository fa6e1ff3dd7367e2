// Package factory wires all application components together.
package factory

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/broadcast"
	"github.com/dropfour/dropfour/internal/dependencies/clock"
	"github.com/dropfour/dropfour/internal/gateway"
	"github.com/dropfour/dropfour/internal/services/identity"
	"github.com/dropfour/dropfour/internal/services/invite"
	"github.com/dropfour/dropfour/internal/services/match"
	"github.com/dropfour/dropfour/internal/storage"
	"github.com/dropfour/dropfour/internal/storage/memory"
	redisstorage "github.com/dropfour/dropfour/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// inviteStoreGrace pads the store TTL past the expiry watchdog's. The
// watchdog must still find the entry when it fires; a store that evicts
// first swallows the timeout notice to the origin.
const inviteStoreGrace = 5 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	InviteStore storage.InviteStore

	// External dependencies
	Clock clock.Clock

	// Services
	Registry *identity.Registry
	Invites  *invite.Service
	Matches  *match.Service

	// Gateway and broadcast
	Hub        *gateway.Hub
	Sender     *gateway.Sender
	Dispatcher *gateway.Dispatcher
	Handler    *gateway.Handler
	Scheduler  *broadcast.Scheduler
}

// Config holds configuration for the application factory
type Config struct {
	// Names seeds the identity registry's name pool (required)
	Names []string
	// MatchConfig holds match timing; zero value falls back to defaults
	MatchConfig match.Config
	// InviteConfig holds invitation timing; zero value falls back to defaults
	InviteConfig invite.Config
	// Logger is the application logger (optional)
	Logger *zap.Logger
	// StorageType selects the invitation store ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inviteCfg := cfg.InviteConfig
	if inviteCfg.TTL == 0 {
		inviteCfg = invite.DefaultConfig()
	}

	var store storage.InviteStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(inviteCfg.TTL + inviteStoreGrace)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		redisCfg.InviteTTL = inviteCfg.TTL + inviteStoreGrace
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	matchCfg := cfg.MatchConfig
	if matchCfg.TickRate == 0 {
		matchCfg = match.DefaultConfig()
	}

	hub := gateway.NewHub(logger)
	app := newWithDependencies(cfg.Names, store, clock.New(), hub, matchCfg, inviteCfg, logger)
	app.Hub = hub
	app.Handler = gateway.NewHandler(app.Dispatcher, hub, logger)
	return app, nil
}

// newWithDependencies creates an App with the given dependencies. Tests pass
// a capturing sink instead of the hub; Hub and Handler stay nil then.
func newWithDependencies(
	names []string,
	store storage.InviteStore,
	clk clock.Clock,
	sink gateway.Sink,
	matchCfg match.Config,
	inviteCfg invite.Config,
	logger *zap.Logger,
) *App {
	registry := identity.NewRegistry(names, logger)

	sender := gateway.NewSender(registry, sink)

	directory := match.NewDirectory()
	matches := match.NewService(directory, clk, matchCfg, logger)
	invites := invite.NewService(store, registry, directory, sender, clk, inviteCfg, logger)

	dispatcher := gateway.NewDispatcher(registry, invites, matches, sender, logger)
	scheduler := broadcast.NewScheduler(directory, registry, sender, matchCfg.TickRate, logger)

	return &App{
		InviteStore: store,
		Clock:       clk,
		Registry:    registry,
		Invites:     invites,
		Matches:     matches,
		Sender:      sender,
		Dispatcher:  dispatcher,
		Scheduler:   scheduler,
	}
}
