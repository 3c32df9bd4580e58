// Package memory provides an in-process resources.Repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-localization-provider/resources"
)

// Repository keeps resources in a concurrent map keyed by ResourceKey.
// Reads are lock free. Writes that touch more than one key are serialized.
type Repository struct {
	mu    sync.Mutex
	items *xsync.MapOf[string, resources.LocalizationResource]
	now   func() time.Time
}

var _ resources.Repository = (*Repository)(nil)

// New returns an empty repository.
func New() *Repository {
	return &Repository{
		items: xsync.NewMapOf[string, resources.LocalizationResource](),
		now:   time.Now,
	}
}

// NewWithResources returns a repository seeded with list.
func NewWithResources(list ...resources.LocalizationResource) *Repository {
	r := New()
	for i := range list {
		item := list[i].Clone()
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		r.items.Store(item.ResourceKey, item)
	}
	return r
}

func (r *Repository) GetAll(ctx context.Context) ([]resources.LocalizationResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]resources.LocalizationResource, 0, r.items.Size())
	r.items.Range(func(_ string, value resources.LocalizationResource) bool {
		out = append(out, value.Clone())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].ResourceKey < out[j].ResourceKey
	})
	return out, nil
}

func (r *Repository) GetByKey(ctx context.Context, key string) (*resources.LocalizationResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := r.items.Load(key)
	if !ok {
		return nil, resources.NotFound(key)
	}
	clone := value.Clone()
	return &clone, nil
}

// Save stores resource under its key. New resources get an ID, and the
// caller's value is updated with the stored ID and modification date.
func (r *Repository) Save(ctx context.Context, resource *resources.LocalizationResource) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items.Load(resource.ResourceKey); ok {
		resource.ID = existing.ID
	} else if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	resource.ModificationDate = r.now().UTC()
	r.items.Store(resource.ResourceKey, resource.Clone())
	return nil
}

func (r *Repository) RenameKey(ctx context.Context, oldKey, newKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if oldKey == newKey {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.items.Load(newKey); taken {
		return resources.KeyConflict(newKey)
	}
	value, ok := r.items.LoadAndDelete(oldKey)
	if !ok {
		return resources.NotFound(oldKey)
	}
	value.ResourceKey = newKey
	value.ModificationDate = r.now().UTC()
	r.items.Store(newKey, value)
	return nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, ok := r.items.LoadAndDelete(key); !ok {
		return resources.NotFound(key)
	}
	return nil
}

// Len returns the number of stored resources.
func (r *Repository) Len() int {
	return r.items.Size()
}
