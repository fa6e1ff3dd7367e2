// Package config loads server configuration from a YAML file and the
// environment. Every key has a default; a missing config file is fine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envVarPrefix = "DROPFOUR"

// Config holds every tunable of the server
type Config struct {
	Server struct {
		// Hostname or IP address to listen on; blank means all interfaces
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Log struct {
		// Minimum level to write. Options: debug, info, warn, error
		Level string `mapstructure:"level"`
		// Output encoding. Options: json, console
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Game struct {
		// Pre-game countdown duration in seconds
		CountdownSeconds int `mapstructure:"countdown_seconds"`
		// Broadcast frequency in ticks per second
		TickRate int `mapstructure:"tick_rate"`
	} `mapstructure:"game"`

	Invite struct {
		// How long a pending invitation stays acceptable
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"invite"`

	Identity struct {
		// Seed pool of display names handed to connecting players
		Names []string `mapstructure:"names"`
	} `mapstructure:"identity"`

	Storage struct {
		// Backend for live invitations. Options: memory, redis
		Type string `mapstructure:"type"`

		Redis struct {
			URL          string `mapstructure:"url"`
			PoolSize     int    `mapstructure:"pool_size"`
			MinIdleConns int    `mapstructure:"min_idle_conns"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("game.countdown_seconds", 3)
	v.SetDefault("game.tick_rate", 30)
	v.SetDefault("invite.ttl", "30s")
	v.SetDefault("identity.names", []string{
		"Amber", "Ruby", "Jade", "Onyx", "Pearl", "Coral", "Topaz", "Slate",
	})
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.redis.url", "redis://localhost:6379/0")
	v.SetDefault("storage.redis.pool_size", 10)
	v.SetDefault("storage.redis.min_idle_conns", 2)
}

// Load reads config.yaml from configPath and overlays environment variables.
// Nested keys map to env vars with the prefix, so storage.redis.url becomes
// DROPFOUR_STORAGE_REDIS_URL.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Identity.Names) == 0 {
		return errors.New("identity.names must not be empty")
	}
	if c.Game.TickRate <= 0 {
		return errors.New("game.tick_rate must be positive")
	}
	if c.Game.CountdownSeconds < 0 {
		return errors.New("game.countdown_seconds must not be negative")
	}
	if c.Invite.TTL <= 0 {
		return errors.New("invite.ttl must be positive")
	}
	switch c.Storage.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("storage.type must be memory or redis, got %q", c.Storage.Type)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
