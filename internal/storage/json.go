package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// LoadJSON decodes the value stored under key into dst. It never returns an
// error: a missing key, a read failure, or malformed JSON all report false and
// leave the caller to fall back to its default. Failures are logged.
func LoadJSON(ctx context.Context, kv KV, key string, dst interface{}, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		logger.Warn("could not read stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok || raw == "" {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Warn("could not parse stored value, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}
