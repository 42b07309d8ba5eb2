// ABOUTME: Application configuration stored at XDG paths with env overrides
// ABOUTME: Covers data dir, remote connection, schedules, locale, logging and device ID
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/language"
)

const (
	AppName        = "daftar"
	ConfigFileName = "config.json"

	DefaultLocale           = "ar-DZ"
	DefaultTimezone         = "Africa/Algiers"
	DefaultSyncInterval     = 30 * time.Second
	DefaultReminderInterval = time.Hour
)

// RemoteConfig points at the remote customers/debts/payments tables.
type RemoteConfig struct {
	Driver string `json:"driver,omitempty"` // postgres or sqlite
	DSN    string `json:"dsn,omitempty"`
}

type CharmConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host,omitempty"`
	AutoSync bool   `json:"auto_sync"`
}

type Config struct {
	DataDir          string       `json:"data_dir,omitempty"`
	DeviceID         string       `json:"device_id"`
	Remote           RemoteConfig `json:"remote"`
	SyncInterval     string       `json:"sync_interval,omitempty"`
	ReminderInterval string       `json:"reminder_interval,omitempty"`
	Locale           string       `json:"locale,omitempty"`
	Timezone         string       `json:"timezone,omitempty"`
	LogLevel         string       `json:"log_level,omitempty"`
	Charm            CharmConfig  `json:"charm"`
}

// Dir returns the XDG-compliant directory for daftar configuration.
func Dir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

func Default() *Config {
	return &Config{
		Locale:   DefaultLocale,
		Timezone: DefaultTimezone,
		LogLevel: "info",
	}
}

// Load reads the config file, falling back to defaults when it is missing.
// Environment variables override file values:
// - DAFTAR_DATA_DIR
// - DAFTAR_REMOTE_DRIVER
// - DAFTAR_REMOTE_DSN
// - DAFTAR_SYNC_INTERVAL
// - DAFTAR_REMINDER_INTERVAL
// - DAFTAR_LOCALE
// - DAFTAR_TIMEZONE
// - DAFTAR_LOG_LEVEL
// - DAFTAR_CHARM_ENABLED.
func Load() (*Config, error) {
	cfg := Default()

	f, err := os.Open(Path())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DAFTAR_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DAFTAR_REMOTE_DRIVER"); v != "" {
		cfg.Remote.Driver = v
	}
	if v := os.Getenv("DAFTAR_REMOTE_DSN"); v != "" {
		cfg.Remote.DSN = v
	}
	if v := os.Getenv("DAFTAR_SYNC_INTERVAL"); v != "" {
		cfg.SyncInterval = v
	}
	if v := os.Getenv("DAFTAR_REMINDER_INTERVAL"); v != "" {
		cfg.ReminderInterval = v
	}
	if v := os.Getenv("DAFTAR_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("DAFTAR_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("DAFTAR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DAFTAR_CHARM_ENABLED"); v != "" {
		cfg.Charm.Enabled = v == "true" || v == "1"
	}
}

// Save writes the config with user-only permissions.
func Save(cfg *Config) error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// EnsureDeviceID assigns a device ID if none is set and reports whether it
// did.
func (c *Config) EnsureDeviceID() bool {
	if c.DeviceID != "" {
		return false
	}
	c.DeviceID = GenerateDeviceID()
	return true
}

// GenerateDeviceID generates a new ULID for device identification.
func GenerateDeviceID() string {
	return ulid.Make().String()
}

// DataPath returns the directory holding the ledger state and journal.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return Dir()
}

func (c *Config) StatePath() string {
	return filepath.Join(c.DataPath(), "state")
}

func (c *Config) JournalPath() string {
	return filepath.Join(c.DataPath(), "journal.db")
}

// RemoteConfigured reports whether a remote sync target is set.
func (c *Config) RemoteConfigured() bool {
	return c.Remote.Driver != "" && c.Remote.DSN != ""
}

// SyncEvery returns the connectivity polling interval.
func (c *Config) SyncEvery() time.Duration {
	return parseDuration(c.SyncInterval, DefaultSyncInterval)
}

// ReminderEvery returns the reminder scan interval. The scheduler clamps it.
func (c *Config) ReminderEvery() time.Duration {
	return parseDuration(c.ReminderInterval, DefaultReminderInterval)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// LanguageTag parses the configured locale, defaulting to Algerian Arabic.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.MustParse(DefaultLocale)
	}
	return tag
}

// Location loads the configured timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	name := c.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// NewLogger builds a logger at the configured level.
func (c *Config) NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          AppName,
	})
}
