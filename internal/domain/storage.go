package domain

import "context"

// KeyValueStore is the flat persisted storage behind progress and leaderboard records.
// Get returns ErrKeyNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
