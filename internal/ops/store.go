package ops

import (
	"context"
)

// Store defines the persistence interface required by a Session.
// The concrete implementations are the storage backends (file, pebble,
// memory); a Session only ever touches the single data key.
type Store interface {
	Load(ctx context.Context, key string) (blob []byte, ok bool, err error)
	Save(ctx context.Context, key string, blob []byte) error
}
