package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jacksmith/snip/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	// DataKey is the single key holding the whole StorageData blob.
	DataKey = "data"

	// DefaultQuotaBytes matches the browser sync storage limit the data
	// layout was designed for.
	DefaultQuotaBytes = 102400
)

// ErrQuotaExceeded is returned by Save when a blob does not fit the quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Blobs reads and writes opaque blobs by key. Every call is a round trip
// that may fail; nothing is transactional.
type Blobs interface {
	// Load returns the blob for key. ok is false if the key is absent.
	Load(ctx context.Context, key string) (blob []byte, ok bool, err error)
	// Save replaces the blob for key.
	Save(ctx context.Context, key string, blob []byte) error
}

// KV is an open backend.
type KV interface {
	Blobs
	Close() error
}

// LoadData reads the StorageData blob. An absent blob yields defaults, and
// missing fields are filled with defaults.
func LoadData(ctx context.Context, kv Blobs) (*model.StorageData, error) {
	blob, ok, err := kv.Load(ctx, DataKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Debug().Msg("no stored data, using defaults")
		return model.NewStorageData(), nil
	}

	var d model.StorageData
	if err := json.Unmarshal(blob, &d); err != nil {
		return nil, fmt.Errorf("failed to decode stored data: %w", err)
	}
	d.Normalize()
	return &d, nil
}

// SaveData writes d as the StorageData blob.
func SaveData(ctx context.Context, kv Blobs, d *model.StorageData) error {
	blob, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return kv.Save(ctx, DataKey, blob)
}

// quotaKV rejects writes whose key plus blob exceed a byte limit.
type quotaKV struct {
	KV
	limit int
}

// WithQuota wraps kv so that Save fails with ErrQuotaExceeded when the key
// and blob together exceed limit bytes. A limit <= 0 disables the check.
func WithQuota(kv KV, limit int) KV {
	if limit <= 0 {
		return kv
	}
	return &quotaKV{KV: kv, limit: limit}
}

func (q *quotaKV) Save(ctx context.Context, key string, blob []byte) error {
	if size := len(key) + len(blob); size > q.limit {
		log.Warn().Int("bytes", size).Int("limit", q.limit).Msg("write rejected by quota")
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrQuotaExceeded, size, q.limit)
	}
	return q.KV.Save(ctx, key, blob)
}
