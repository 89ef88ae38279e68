// Package kvstore abstracts the flat key-value blob store the ledger
// persists into. Each key holds one independently serialized collection;
// the store never interprets blob contents.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or has
// been deleted. Callers treat a missing blob as an empty collection.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the external persistence collaborator. Writes to distinct keys are
// independent; there is no multi-key transaction and callers accept the
// inconsistency window between two Sets.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
