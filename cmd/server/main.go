package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dropfour/dropfour/internal/config"
	"github.com/dropfour/dropfour/internal/factory"
	"github.com/dropfour/dropfour/internal/gateway"
	"github.com/dropfour/dropfour/internal/logging"
	"github.com/dropfour/dropfour/internal/services/invite"
	"github.com/dropfour/dropfour/internal/services/match"
	redisstorage "github.com/dropfour/dropfour/internal/storage/redis"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No logger yet
		zap.NewExample().Fatal("loading config", zap.Error(err))
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	factoryCfg := factory.Config{
		Names: cfg.Identity.Names,
		MatchConfig: match.Config{
			CountdownSeconds: cfg.Game.CountdownSeconds,
			TickRate:         cfg.Game.TickRate,
		},
		InviteConfig: invite.Config{TTL: cfg.Invite.TTL},
		Logger:       logger,
		StorageType:  cfg.Storage.Type,
	}

	if cfg.Storage.Type == factory.StorageTypeRedis {
		factoryCfg.RedisConfig = &redisstorage.Config{
			URL:          cfg.Storage.Redis.URL,
			PoolSize:     cfg.Storage.Redis.PoolSize,
			MinIdleConns: cfg.Storage.Redis.MinIdleConns,
		}
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Fatal("creating application", zap.Error(err))
	}

	router := gateway.NewRouter(gateway.RouterConfig{
		Logger:  logger,
		Handler: app.Handler,
	})

	serverCfg := gateway.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	server := gateway.NewServer(router, serverCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// The scheduler drives every live match; it stops with the context
	go app.Scheduler.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", zap.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Fatal("shutdown error", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
