// Package cache provides the cache manager abstraction used in front of
// localization resource queries.
//
// # Overview
//
// The package exports:
//
//   - Manager: a concurrency-safe store for opaque byte blobs
//   - ReadThrough and GetOrFetch: typed read-through on top of a Manager
//   - KeySerializer: builds stable cache keys from a method name and arguments
//
// Two backends are available through NewManager. The default "memory"
// backend is an in-process sturdyc client. The "redis" backend stores
// entries under a key prefix so that Clear only removes this manager's keys.
//
// # Basic Usage
//
//	manager, err := cache.NewManager(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	rt := cache.NewReadThrough(manager, nil, logger)
//
//	key := cache.NewDefaultKeySerializer().SerializeKey("localization_resources", "get_all_resources")
//	resources, err := cache.GetOrFetch(ctx, rt, key, func(ctx context.Context) ([]resources.LocalizationResource, error) {
//		return repo.GetAll(ctx)
//	})
//
// # Failure Semantics
//
// The cache is an optimisation, never a dependency. GetOrFetch treats a
// failing read as a miss and a failing write as a no-op; both are logged at
// warn level. Entries that cannot be decoded are removed and refetched.
// Errors from the fetch function are returned unchanged and are not cached.
//
// Direct Manager calls do return backend errors. Use IsBackendUnavailable to
// recognise them.
//
// # Key Serialization
//
// The default key serializer walks arguments with reflection:
//
//   - Basic types: direct string representation
//   - fmt.Stringer values: "str:" plus the String result
//   - Slices, arrays: recursive serialization of elements
//   - Maps: sorted key=value pairs
//   - Structs: exported fields as name:value pairs
//   - Funcs, channels: kind and type only, so keys never depend on addresses
//
// Keys longer than MaxKeyLength keep their method segment and replace the
// arguments with an xxhash digest.
package cache
