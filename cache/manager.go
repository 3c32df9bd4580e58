package cache

import (
	"context"

	"github.com/goliatone/go-localization-provider/internal/cacheinfra"
)

// Manager is a key/value store for opaque cached blobs. Implementations must
// be safe for concurrent use.
type Manager interface {
	// Get returns the blob stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// Clear removes every entry owned by the manager.
	Clear(ctx context.Context) error
	Close() error
}

// Pinger is implemented by managers that can check backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewManager builds the backend selected by cfg.Backend.
func NewManager(cfg Config) (Manager, error) {
	internal := cfg.toInternal()
	if err := internal.Validate(); err != nil {
		return nil, err
	}

	switch internal.Backend {
	case BackendRedis:
		return cacheinfra.NewRedisManager(internal)
	default:
		return cacheinfra.NewSturdycManager(internal)
	}
}

// IsBackendUnavailable reports whether err comes from a failing cache backend.
func IsBackendUnavailable(err error) bool {
	return cacheinfra.IsBackendUnavailable(err)
}
