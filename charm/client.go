// ABOUTME: Charm KV client that backs the ledger blob up to Charm cloud
// ABOUTME: Implements storage.KV with thread-safe access and optional auto-sync

package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/daftar/storage"
)

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// backend is the subset of charm/kv the client relies on.
type backend interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
}

// Client wraps charm KV with config and sync helpers.
type Client struct {
	kv     backend
	config *Config
	mu     sync.RWMutex

	// linked reports whether the client talks to a charm server.
	linked bool
}

var _ storage.KV = (*Client)(nil)

// GetClient opens the process-wide client on first use. The charm KV
// database can only be opened once per process.
func GetClient(cfg *Config) (*Client, error) {
	clientOnce.Do(func() {
		globalClient, clientErr = NewClient(cfg)
	})
	return globalClient, clientErr
}

// NewClient opens the charm KV database for daftar and pulls remote changes
// when auto-sync is on.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
		linked: true,
	}

	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

// Close is a no-op. charm/kv does not expose Close and the underlying
// BadgerDB is released on process exit.
func (c *Client) Close() error {
	return nil
}

// Config returns the client's config.
func (c *Client) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	if !c.linked {
		return "", errors.New("charm client is not linked")
	}
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// IsConnected reports whether the charm server knows this device.
func (c *Client) IsConnected() bool {
	if !c.linked {
		return true
	}
	_, err := c.ID()
	return err == nil
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Get retrieves a value by key. Missing keys return storage.ErrNotFound.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, err := c.kv.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	return value, err
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}

	// Sync while still holding lock to avoid race condition
	if c.config.AutoSync {
		if err := c.kv.Sync(); err != nil {
			return fmt.Errorf("saved locally but sync failed: %w", err)
		}
	}
	return nil
}

// Delete removes a key and syncs if enabled.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}

	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

func (c *Client) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}

// Reset wipes all data from the KV store (use with caution!)
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}
