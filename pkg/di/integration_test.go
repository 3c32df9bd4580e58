package di

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/text/language"

	"github.com/goliatone/go-localization-provider/config"
	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/discovery"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/keys"
	"github.com/goliatone/go-localization-provider/resources"
	"github.com/goliatone/go-localization-provider/storage/bunstore"
	"github.com/goliatone/go-localization-provider/storage/memory"
)

type SignupForm struct {
	discovery.LocalizedModel
	Email    string `display:"Email address" translations:"sv=E-postadress"`
	Password string `display:"Password" placeholder:"At least 8 characters"`
}

// countingRepository tracks GetAll calls to verify caching behavior.
type countingRepository struct {
	resources.Repository
	getAll atomic.Int32
}

func (r *countingRepository) GetAll(ctx context.Context) ([]resources.LocalizationResource, error) {
	r.getAll.Add(1)
	return r.Repository.GetAll(ctx)
}

func newIntegrationContainer(t *testing.T, repo resources.Repository) *Container {
	t.Helper()

	cfg := testConfig()
	cfg.FallbackCultures = []language.Tag{language.English}
	cfg.CustomTags = []string{"placeholder"}

	container, err := NewContainer(cfg, repo, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestIntegration_SyncAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepository{Repository: memory.New()}
	container := newIntegrationContainer(t, repo)

	report, err := container.Synchronizer().Sync(ctx, reflect.TypeOf(SignupForm{}))
	if err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}
	if report.Created != 3 {
		t.Errorf("expected 3 created resources, got %+v", report)
	}

	provider := container.Provider()
	emailKey := keys.For[SignupForm]("Email")

	tests := []struct {
		name    string
		key     string
		culture language.Tag
		want    string
	}{
		{name: "explicit culture", key: emailKey, culture: language.Swedish, want: "E-postadress"},
		{name: "fallback to english", key: keys.For[SignupForm]("Password"), culture: language.Swedish, want: "Password"},
		{name: "custom tag", key: keys.For[SignupForm]("Password") + "-Placeholder", culture: language.English, want: "At least 8 characters"},
		{name: "unknown culture falls back", key: emailKey, culture: language.German, want: "Email address"},
		{name: "unknown key", key: "does.not.Exist", culture: language.English, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := provider.GetStringByCulture(ctx, tt.key, tt.culture)
			if err != nil {
				t.Fatalf("GetStringByCulture() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if calls := repo.getAll.Load(); calls != 1 {
		t.Errorf("expected one repository load for all lookups, got %d", calls)
	}
}

func TestIntegration_ClearCacheReloads(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepository{Repository: memory.New()}
	container := newIntegrationContainer(t, repo)
	provider := container.Provider()

	if _, err := provider.GetString(ctx, "app.Greeting"); err != nil {
		t.Fatal(err)
	}

	res := &resources.LocalizationResource{ResourceKey: "app.Greeting"}
	res.SetTranslation(culture.Invariant, "Hello")
	if err := repo.Save(ctx, res); err != nil {
		t.Fatal(err)
	}

	// stale until the cache is cleared
	if got, _ := provider.GetString(ctx, "app.Greeting"); got != "" {
		t.Errorf("expected cached miss, got %q", got)
	}

	if err := container.Commands().Execute(ctx, resources.ClearCache{}); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if got, _ := provider.GetString(ctx, "app.Greeting"); got != "Hello" {
		t.Errorf("expected Hello after clear, got %q", got)
	}
	if calls := repo.getAll.Load(); calls != 2 {
		t.Errorf("expected two repository loads, got %d", calls)
	}
}

func TestIntegration_AvailableLanguages(t *testing.T) {
	ctx := context.Background()
	container := newIntegrationContainer(t, memory.New())

	if _, err := container.Synchronizer().Sync(ctx, reflect.TypeOf(SignupForm{})); err != nil {
		t.Fatal(err)
	}

	tags, err := container.Provider().AvailableLanguages(ctx, false)
	if err != nil {
		t.Fatalf("AvailableLanguages() failed: %v", err)
	}
	want := []language.Tag{language.English, language.Swedish}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("expected %v, got %v", want, tags)
	}
}

func TestIntegration_ConcurrentLookups(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepository{Repository: memory.New()}
	container := newIntegrationContainer(t, repo)
	if _, err := container.Synchronizer().Sync(ctx, reflect.TypeOf(SignupForm{})); err != nil {
		t.Fatal(err)
	}

	key := keys.For[SignupForm]("Email")
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := container.Provider().GetStringByCulture(ctx, key, language.Swedish)
			if err != nil {
				errs <- err
				return
			}
			if got != "E-postadress" {
				t.Errorf("expected E-postadress, got %q", got)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent lookup failed: %v", err)
	}
}

func TestIntegration_BunStore(t *testing.T) {
	ctx := context.Background()

	store, err := bunstore.Open(ctx, "file::memory:", logging.Discard())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}

	container, err := NewContainer(config.DefaultConfig(), store, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	defer container.Close()

	if _, err := container.Synchronizer().Sync(ctx, reflect.TypeOf(SignupForm{})); err != nil {
		t.Fatalf("Sync() failed: %v", err)
	}

	got, err := container.Provider().GetStringByType(ctx, reflect.TypeOf(SignupForm{}), "Email", language.Swedish)
	if err != nil {
		t.Fatal(err)
	}
	if got != "E-postadress" {
		t.Errorf("expected E-postadress, got %q", got)
	}
}
