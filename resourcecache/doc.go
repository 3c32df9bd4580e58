// Package resourcecache caches the GetAllResources query.
//
// # Overview
//
// CachedGetAllResourcesHandler is a dispatch.QueryDecorator. Registered on
// GetAllResources it turns every translation lookup into a read from the
// cache manager, falling back to the repository on a miss:
//
//	_ = dispatch.SetQueryHandler[resources.GetAllResources, *resources.GetAllResourcesHandler](reg)
//	_ = dispatch.DecorateQuery[resources.GetAllResources, *resourcecache.CachedGetAllResourcesHandler](reg)
//	_ = dispatch.SetCommandHandler[resources.ClearCache, *resourcecache.ClearCacheHandler](reg)
//
// # Caching Behavior
//
//  1. Derive the key from the query shape: "localization_resources::get_all_resources"
//  2. On a hit, return the cached list without calling the inner handler
//  3. On a miss, call the inner handler and store its result
//  4. Return the result
//
// A failing cache backend is treated as a miss; the request is served from
// the repository and the failure is logged.
//
// # Invalidation
//
// The ClearCache command clears the cache manager unconditionally. The next
// GetAllResources call reaches the repository exactly once and repopulates
// the entry. A Set already in flight when Clear runs may repopulate the
// cache with the value it fetched; invalidation is eventually consistent
// under concurrent writes.
package resourcecache
