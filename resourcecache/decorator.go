package resourcecache

import (
	"context"
	"fmt"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-localization-provider/cache"
	"github.com/goliatone/go-localization-provider/dispatch"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/resources"
)

// KeyNamespace prefixes every key written by this package.
const KeyNamespace = "localization_resources"

// QueryKey returns the cache key of a parameterless query shape.
func QueryKey(keys cache.KeySerializer, shape dispatch.Shape) string {
	return keys.SerializeKey(KeyNamespace, shapeSegment(shape))
}

// CachedGetAllResourcesHandler decorates GetAllResources with a read-through
// cache. The query has no parameters, so a single constant key holds the
// whole resource list.
type CachedGetAllResourcesHandler struct {
	Cache  *cache.ReadThrough
	Keys   cache.KeySerializer
	Logger *slog.Logger
}

func NewCachedGetAllResourcesHandler(rt *cache.ReadThrough, keys cache.KeySerializer, logger *slog.Logger) *CachedGetAllResourcesHandler {
	return &CachedGetAllResourcesHandler{Cache: rt, Keys: keys, Logger: logger}
}

// Execute returns the cached list on a hit without calling next. On a miss,
// or when the cache backend fails, next is called and its result stored.
func (h *CachedGetAllResourcesHandler) Execute(ctx context.Context, query any, next dispatch.QueryHandler) (any, error) {
	if _, err := dispatch.RequestAs[resources.GetAllResources](query); err != nil {
		return nil, err
	}

	key := QueryKey(h.Keys, dispatch.ShapeFor[resources.GetAllResources]())

	return cache.GetOrFetch(ctx, h.Cache, key, func(ctx context.Context) ([]resources.LocalizationResource, error) {
		result, err := next.Execute(ctx, query)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, nil
		}

		list, ok := result.([]resources.LocalizationResource)
		if !ok {
			return nil, goerrors.New(fmt.Sprintf("GetAllResources returned %T", result), goerrors.CategoryInternal).
				WithTextCode("UNEXPECTED_RESULT_TYPE")
		}
		return list, nil
	})
}

// ClearCacheHandler handles the ClearCache command by clearing the whole
// cache manager. Backend errors are returned to the caller.
type ClearCacheHandler struct {
	Manager cache.Manager
	Logger  *slog.Logger
}

func NewClearCacheHandler(manager cache.Manager, logger *slog.Logger) *ClearCacheHandler {
	return &ClearCacheHandler{Manager: manager, Logger: logger}
}

func (h *ClearCacheHandler) Execute(ctx context.Context, cmd any) error {
	if _, err := dispatch.RequestAs[resources.ClearCache](cmd); err != nil {
		return err
	}

	logger := logging.OrDiscard(h.Logger)
	if err := h.Manager.Clear(ctx); err != nil {
		logger.WarnContext(ctx, "cache clear failed", logging.ErrorAttrs(err)...)
		return err
	}

	logger.InfoContext(ctx, "localization cache cleared")
	return nil
}
