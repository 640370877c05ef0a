package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"
)

// PebbleKV stores blobs in a pebble database.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a pebble database at path.
func OpenPebble(path string) (*PebbleKV, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("pebble open failed")
		return nil, fmt.Errorf("failed to open pebble db: %w", err)
	}
	log.Debug().Str("path", path).Msg("pebble opened")
	return &PebbleKV{db: db}, nil
}

func (p *PebbleKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer closer.Close()
	// v is only valid until closer.Close.
	return append([]byte(nil), v...), true, nil
}

func (p *PebbleKV) Save(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.db.Set([]byte(key), blob, pebble.Sync); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	log.Debug().Str("key", key).Int("bytes", len(blob)).Msg("pebble save")
	return nil
}

func (p *PebbleKV) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
