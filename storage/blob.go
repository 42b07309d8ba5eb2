// ABOUTME: Versioned blob codec for the full ledger state
// ABOUTME: Serializes customers, debts, payments and settings under one key
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/daftar/ledger"
)

const (
	// StateKey is the key the ledger blob lives under.
	StateKey = "app-storage-simplified"

	SchemaVersion = 1
)

var ErrUnsupportedVersion = errors.New("unsupported state schema version")

type Blob struct {
	Version int          `json:"version"`
	State   ledger.State `json:"state"`
}

func Encode(state ledger.State) ([]byte, error) {
	data, err := json.Marshal(Blob{Version: SchemaVersion, State: state})
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Decode parses a blob. Settings absent from the blob keep their defaults.
// Blobs written by a newer schema are rejected.
func Decode(data []byte) (ledger.State, error) {
	blob := Blob{State: ledger.NewState()}
	if err := json.Unmarshal(data, &blob); err != nil {
		return ledger.State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	if blob.Version > SchemaVersion {
		return ledger.State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, blob.Version)
	}
	return blob.State, nil
}
