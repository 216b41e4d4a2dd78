// Package store provides raw collection storage backends. A collection is a
// named JSON document that is always read and written as a whole.
package store

import (
	"context"
	"errors"
)

// Collection names used by the auction ledger
const (
	Users   = "users"
	Items   = "items"
	Auction = "auction"
)

// ErrUnknownBackend reports an unsupported STORE_BACKEND value
var ErrUnknownBackend = errors.New("unknown store backend")

// CollectionStore loads and saves full collection snapshots.
// Load returns nil data and a nil error when the collection does not exist yet.
// SaveAll replaces every collection in the batch as one atomic step.
type CollectionStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	SaveAll(ctx context.Context, batch map[string][]byte) error
	Close() error
}
