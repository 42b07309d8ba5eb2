// ABOUTME: Connection settings for the Charm cloud backup of the ledger
// ABOUTME: Derived from the charm section of the application config

package charm

import (
	"github.com/harperreed/daftar/config"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName is the application name for the Charm KV database.
	AppName = config.AppName
)

// Config holds charm connection settings.
type Config struct {
	// Host is the charm server hostname (default: charm.2389.dev)
	Host string

	// AutoSync pushes to the server after every write
	AutoSync bool
}

// FromAppConfig builds client settings from the application config.
func FromAppConfig(c config.CharmConfig) *Config {
	cfg := &Config{Host: c.Host, AutoSync: c.AutoSync}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	return cfg
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:     DefaultCharmHost,
		AutoSync: true,
	}
}
