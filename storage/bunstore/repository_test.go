package bunstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"golang.org/x/text/language"

	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/resources"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	repo, err := Open(ctx, "file::memory:", nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	return repo
}

func resource(key, value string) *resources.LocalizationResource {
	r := &resources.LocalizationResource{ResourceKey: key, FromCode: true, Author: "type-scanner"}
	r.SetTranslation(culture.Invariant, value)
	return r
}

func TestRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	res := resource("app.Customer.Name", "Name")
	res.SetTranslation(language.Swedish, "Namn")
	if err := repo.Save(ctx, res); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, err := uuid.Parse(res.ID); err != nil {
		t.Fatalf("Save() should assign a UUID, got %q: %v", res.ID, err)
	}

	got, err := repo.GetByKey(ctx, "app.Customer.Name")
	if err != nil {
		t.Fatalf("GetByKey() failed: %v", err)
	}
	if got.ID != res.ID {
		t.Errorf("expected ID %s, got %s", res.ID, got.ID)
	}
	if !got.FromCode || got.Author != "type-scanner" {
		t.Errorf("unexpected resource fields: %+v", got)
	}
	if v, ok := got.TranslationFor(language.Swedish); !ok || v != "Namn" {
		t.Errorf("expected Namn, got %q (found=%v)", v, ok)
	}
	if v, ok := got.TranslationFor(culture.Invariant); !ok || v != "Name" {
		t.Errorf("expected Name, got %q (found=%v)", v, ok)
	}
}

func TestRepository_SaveUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first := resource("k", "one")
	if err := repo.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := resource("k", "two")
	second.IsModified = true
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save() update failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("update should keep ID %s, got %s", first.ID, second.ID)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(all))
	}
	if v, _ := all[0].TranslationFor(culture.Invariant); v != "two" {
		t.Errorf("expected updated value, got %q", v)
	}
	if !all[0].IsModified {
		t.Error("expected IsModified to be stored")
	}
}

func TestRepository_GetAllOrdered(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, key := range []string{"b", "c", "a"} {
		if err := repo.Save(ctx, resource(key, key)); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() failed: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ResourceKey != want {
			t.Errorf("position %d: expected %s, got %s", i, want, all[i].ResourceKey)
		}
	}
}

func TestRepository_RenameKey(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		oldKey  string
		newKey  string
		wantErr func(error) bool
		present string
	}{
		{name: "moves resource", oldKey: "old", newKey: "new", present: "new"},
		{name: "unknown key", oldKey: "missing", newKey: "new", wantErr: resources.IsNotFound, present: "old"},
		{name: "target taken", oldKey: "old", newKey: "taken", wantErr: resources.IsConflict, present: "old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(t)
			for _, key := range []string{"old", "taken"} {
				if err := repo.Save(ctx, resource(key, key)); err != nil {
					t.Fatal(err)
				}
			}

			err := repo.RenameKey(ctx, tt.oldKey, tt.newKey)
			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if err != nil {
				t.Fatalf("RenameKey() failed: %v", err)
			}

			if _, err := repo.GetByKey(ctx, tt.present); err != nil {
				t.Errorf("expected %s to exist: %v", tt.present, err)
			}
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	if err := repo.Save(ctx, resource("a", "A")); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetByKey(ctx, "a"); !resources.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !resources.IsNotFound(err) {
		t.Errorf("expected not found deleting twice, got %v", err)
	}
}

func TestRepository_MigrateIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Errorf("second Migrate() failed: %v", err)
	}
}

func TestRepository_SaveStoresZeroValues(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first := resource("k", "one")
	first.IsModified = true
	first.IsHidden = true
	if err := repo.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := &resources.LocalizationResource{ResourceKey: "k"}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save() update failed: %v", err)
	}

	got, err := repo.GetByKey(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if got.IsModified || got.IsHidden || got.FromCode {
		t.Errorf("expected flags cleared, got %+v", got)
	}
	if got.Author != "" {
		t.Errorf("expected empty author, got %q", got.Author)
	}
	if len(got.Translations) != 0 {
		t.Errorf("expected no translations, got %v", got.Translations)
	}
}

func TestRepository_GetAllReturnsEveryRow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	const total = 40
	for i := 0; i < total; i++ {
		if err := repo.Save(ctx, resource(fmt.Sprintf("key.%02d", i), "v")); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() failed: %v", err)
	}
	if len(all) != total {
		t.Errorf("expected %d resources, got %d", total, len(all))
	}
}

func TestTranslationColumn_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    int
		wantErr bool
	}{
		{name: "nil", src: nil, want: 0},
		{name: "empty string", src: "", want: 0},
		{name: "string", src: `[{"language":"sv","value":"Namn"}]`, want: 1},
		{name: "bytes", src: []byte(`[]`), want: 0},
		{name: "unsupported", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c translationColumn
			err := c.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(c) != tt.want {
				t.Errorf("expected %d translations, got %d", tt.want, len(c))
			}
		})
	}
}
