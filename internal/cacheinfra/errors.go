package cacheinfra

import (
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeBackendUnavailable marks failures of the backing cache store.
const TextCodeBackendUnavailable = "CACHE_BACKEND_UNAVAILABLE"

func backendUnavailable(backend, op string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "cache backend unavailable").
		WithTextCode(TextCodeBackendUnavailable).
		WithMetadata(map[string]any{
			"backend":   backend,
			"operation": op,
		})
}

// IsBackendUnavailable reports whether err was produced by a failing cache backend.
func IsBackendUnavailable(err error) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == TextCodeBackendUnavailable
}
