// ABOUTME: Test utilities for creating isolated charm clients
// ABOUTME: Backs the client with a local Badger store instead of a charm server

package charm

import (
	"path/filepath"
	"testing"

	"github.com/harperreed/daftar/storage"
)

// testKV is a local Badger store that never syncs.
type testKV struct {
	*storage.BadgerKV
	syncs int
}

func (t *testKV) Sync() error {
	t.syncs++
	return nil
}

// NewTestClient creates a charm client backed by a temporary Badger store.
// The store is closed when the test ends.
func NewTestClient(t *testing.T, autoSync bool) *Client {
	t.Helper()

	db, err := storage.OpenBadger(filepath.Join(t.TempDir(), AppName))
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	return &Client{
		kv:     &testKV{BadgerKV: db},
		config: &Config{Host: "localhost", AutoSync: autoSync},
	}
}
