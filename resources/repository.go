package resources

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeResourceNotFound = "RESOURCE_NOT_FOUND"
	TextCodeResourceExists   = "RESOURCE_EXISTS"
)

// Repository persists localization resources.
type Repository interface {
	// GetAll returns every resource ordered by key.
	GetAll(ctx context.Context) ([]LocalizationResource, error)
	// GetByKey returns a not found error when key is unknown.
	GetByKey(ctx context.Context, key string) (*LocalizationResource, error)
	// Save inserts or updates by ResourceKey. It assigns an ID to new
	// resources.
	Save(ctx context.Context, resource *LocalizationResource) error
	// RenameKey moves a resource to newKey. It fails with a conflict error
	// when newKey is taken.
	RenameKey(ctx context.Context, oldKey, newKey string) error
	Delete(ctx context.Context, key string) error
}

// NotFound builds the error repositories return for unknown keys.
func NotFound(key string) error {
	return goerrors.New(fmt.Sprintf("resource %q not found", key), goerrors.CategoryNotFound).
		WithTextCode(TextCodeResourceNotFound).
		WithMetadata(map[string]any{"resource_key": key})
}

// KeyConflict builds the error repositories return when a key is taken.
func KeyConflict(key string) error {
	return goerrors.New(fmt.Sprintf("resource %q already exists", key), goerrors.CategoryConflict).
		WithTextCode(TextCodeResourceExists).
		WithMetadata(map[string]any{"resource_key": key})
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return goerrors.IsNotFound(err)
}

// IsConflict reports whether err is a key conflict.
func IsConflict(err error) bool {
	return goerrors.HasCategory(err, goerrors.CategoryConflict)
}
