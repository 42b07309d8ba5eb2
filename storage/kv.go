// ABOUTME: Key-value contract used to persist the ledger blob
// ABOUTME: Implemented by the local Badger store and the Charm cloud client
package storage

import "errors"

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}
