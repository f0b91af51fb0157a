package murmur

import "context"

// KeyValueStore persists small string values across process restarts.
// Get returns ErrNotFound when the key has no value.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
