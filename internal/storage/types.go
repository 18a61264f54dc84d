package storage

import (
	"context"
	"time"
)

// Well-known keys in the durable key/value store.
const (
	KeyInstalled         = "snufulufugus_installed"
	KeyPersonaHistory    = "snufulufugus_persona_history"
	KeyAgentConfig       = "snufulufugus_agent_config"
	KeyGeneratedPersonas = "snufulufugus_generated_personas"
	KeyActivePersona     = "snufulufugus_active_persona"
	KeyTargetURL         = "snufulufugus_target_url"
)

// KV is the durable string key/value storage the engine persists into.
// Get reports ok=false for a missing key rather than an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats holds aggregate statistics about the store.
type Stats struct {
	Backend     string
	TotalKeys   int64
	TotalBytes  int64
	LastUpdated time.Time
}
