package cache

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-localization-provider/internal/logging"
)

// FetchFn loads a value from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// ReadThrough pairs a Manager with a Codec. Cache failures never fail the
// caller: a broken read or an undecodable entry is a miss, a failed write is
// logged and dropped.
type ReadThrough struct {
	manager Manager
	codec   Codec
	logger  *slog.Logger
}

// NewReadThrough creates a ReadThrough. A nil codec selects MsgpackCodec and a
// nil logger discards output.
func NewReadThrough(manager Manager, codec Codec, logger *slog.Logger) *ReadThrough {
	if codec == nil {
		codec = MsgpackCodec{}
	}
	return &ReadThrough{
		manager: manager,
		codec:   codec,
		logger:  logging.OrDiscard(logger),
	}
}

// Manager returns the underlying cache manager.
func (r *ReadThrough) Manager() Manager {
	return r.manager
}

// GetOrFetch returns the cached value for key or calls fetch, stores its
// result and returns it. Errors from fetch are returned unchanged and nothing
// is stored.
func GetOrFetch[T any](ctx context.Context, r *ReadThrough, key string, fetch FetchFn[T]) (T, error) {
	if value, ok := lookup[T](ctx, r, key); ok {
		return value, nil
	}

	r.logger.DebugContext(ctx, "cache miss", "key", key)

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	data, err := r.codec.Marshal(value)
	if err != nil {
		r.logger.WarnContext(ctx, "cache encode failed", append([]any{"key", key}, logging.ErrorAttrs(err)...)...)
		return value, nil
	}

	if err := r.manager.Set(ctx, key, data); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", append([]any{"key", key}, logging.ErrorAttrs(err)...)...)
	}

	return value, nil
}

func lookup[T any](ctx context.Context, r *ReadThrough, key string) (T, bool) {
	var value T

	data, ok, err := r.manager.Get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "cache read failed, treating as miss", append([]any{"key", key}, logging.ErrorAttrs(err)...)...)
		return value, false
	}
	if !ok {
		return value, false
	}

	if err := r.codec.Unmarshal(data, &value); err != nil {
		r.logger.WarnContext(ctx, "cache entry undecodable, dropping", append([]any{"key", key}, logging.ErrorAttrs(err)...)...)
		if rmErr := r.manager.Remove(ctx, key); rmErr != nil {
			r.logger.WarnContext(ctx, "cache remove failed", append([]any{"key", key}, logging.ErrorAttrs(rmErr)...)...)
		}
		var zero T
		return zero, false
	}

	r.logger.DebugContext(ctx, "cache hit", "key", key)
	return value, true
}
