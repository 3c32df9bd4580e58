package di

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/text/language"

	"github.com/goliatone/go-localization-provider/cache"
	"github.com/goliatone/go-localization-provider/config"
	"github.com/goliatone/go-localization-provider/dispatch"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/resources"
	"github.com/goliatone/go-localization-provider/storage/memory"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Cache.Capacity = 100
	cfg.Cache.NumShards = 4
	cfg.Cache.TTL = time.Minute
	return cfg
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig()

	container, err := NewContainer(cfg, memory.New(), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if container.CacheManager() == nil {
		t.Error("Container should have a non-nil cache manager")
	}
	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if container.Provider() == nil || container.Discoverer() == nil || container.Synchronizer() == nil {
		t.Error("Container should expose provider, discoverer and synchronizer")
	}

	stored := container.Config()
	if stored.Cache.Capacity != cfg.Cache.Capacity {
		t.Errorf("Expected capacity %d, got %d", cfg.Cache.Capacity, stored.Cache.Capacity)
	}
	if stored.DefaultCulture != cfg.DefaultCulture {
		t.Errorf("Expected culture %s, got %s", cfg.DefaultCulture, stored.DefaultCulture)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults(memory.New(), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	if container.Config().Cache.TTL != cache.DefaultConfig().TTL {
		t.Errorf("Expected default TTL %v, got %v", cache.DefaultConfig().TTL, container.Config().Cache.TTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero ttl", mutate: func(c *config.Config) { c.Cache.TTL = 0 }},
		{name: "unknown backend", mutate: func(c *config.Config) { c.Cache.Backend = "disk" }},
		{name: "bad log format", mutate: func(c *config.Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := NewContainer(cfg, memory.New())
			if err == nil {
				t.Fatal("expected an error for invalid configuration")
			}
			if !goerrors.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestNewContainer_NilRepository(t *testing.T) {
	if _, err := NewContainer(testConfig(), nil); err == nil {
		t.Fatal("expected an error for a nil repository")
	}
}

func TestContainer_DefaultRegistrations(t *testing.T) {
	container, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	defer container.Close()

	want := map[dispatch.Shape]int{
		dispatch.ShapeFor[resources.GetAllResources]():         1,
		dispatch.ShapeFor[resources.GetTranslation]():          0,
		dispatch.ShapeFor[resources.DetermineDefaultCulture](): 0,
		dispatch.ShapeFor[resources.AvailableLanguages]():      0,
		dispatch.ShapeFor[resources.ClearCache]():              0,
	}

	regs := container.Registry().Registrations()
	if len(regs) != len(want) {
		t.Fatalf("expected %d registrations, got %d", len(want), len(regs))
	}
	for _, reg := range regs {
		depth, ok := want[reg.Shape]
		if !ok {
			t.Errorf("unexpected registration %s", reg.Shape)
			continue
		}
		if len(reg.Decorators) != depth {
			t.Errorf("%s: expected %d decorators, got %d", reg.Shape, depth, len(reg.Decorators))
		}
	}

	for _, ht := range container.Registry().HandlerTypes() {
		if _, ok := container.factories.Load(ht); !ok {
			t.Errorf("no factory for %s", ht)
		}
	}
}

type fixedCultureHandler struct{}

func (fixedCultureHandler) Execute(context.Context, any) (any, error) {
	return language.Swedish, nil
}

type tracingDecorator struct {
	calls *int
}

func (d *tracingDecorator) Execute(ctx context.Context, query any, next dispatch.QueryHandler) (any, error) {
	*d.calls++
	return next.Execute(ctx, query)
}

func TestContainer_SetupOverridesAndDecorates(t *testing.T) {
	calls := 0
	setup := func(c *Container) error {
		if err := dispatch.OverrideQuery[resources.DetermineDefaultCulture, fixedCultureHandler](c.Registry()); err != nil {
			return err
		}
		if err := dispatch.DecorateQuery[resources.DetermineDefaultCulture, *tracingDecorator](c.Registry()); err != nil {
			return err
		}
		if err := Provide(c, func(*Container) (fixedCultureHandler, error) {
			return fixedCultureHandler{}, nil
		}); err != nil {
			return err
		}
		return Provide(c, func(*Container) (*tracingDecorator, error) {
			return &tracingDecorator{calls: &calls}, nil
		})
	}

	container, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()), WithSetup(setup))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	tag, err := container.Provider().DefaultCulture(context.Background())
	if err != nil {
		t.Fatalf("DefaultCulture() failed: %v", err)
	}
	if tag != language.Swedish {
		t.Errorf("expected overridden culture sv, got %s", tag)
	}
	if calls != 1 {
		t.Errorf("expected decorator to run once, got %d", calls)
	}
}

func TestContainer_MissingFactory(t *testing.T) {
	setup := func(c *Container) error {
		return dispatch.OverrideQuery[resources.DetermineDefaultCulture, fixedCultureHandler](c.Registry())
	}

	container, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()), WithSetup(setup))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	_, err = container.Provider().DefaultCulture(context.Background())
	if !errors.Is(err, ErrMissingFactory) {
		t.Fatalf("expected ErrMissingFactory, got %v", err)
	}
	if !goerrors.IsInternal(err) {
		t.Errorf("expected internal category, got %v", err)
	}
}

func TestContainer_SetupError(t *testing.T) {
	boom := errors.New("setup failed")
	_, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()), WithSetup(func(*Container) error {
		return boom
	}))
	if !errors.Is(err, boom) {
		t.Errorf("expected setup error, got %v", err)
	}
}

func TestContainer_ConstructorInstalledOnce(t *testing.T) {
	container, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	defer container.Close()

	err = container.Registry().SetConstructor(dispatch.DefaultConstructor)
	if !errors.Is(err, dispatch.ErrConstructorAlreadySet) {
		t.Errorf("expected ErrConstructorAlreadySet, got %v", err)
	}
}

func TestProvide_AfterFirstResolve(t *testing.T) {
	container, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	defer container.Close()

	if _, err := container.Provider().DefaultCulture(context.Background()); err != nil {
		t.Fatal(err)
	}

	err = Provide(container, func(*Container) (*tracingDecorator, error) { return &tracingDecorator{}, nil })
	if !errors.Is(err, dispatch.ErrRegistrySealed) {
		t.Errorf("expected ErrRegistrySealed, got %v", err)
	}
	err = dispatch.SetQueryHandler[struct{}, fixedCultureHandler](container.Registry())
	if !errors.Is(err, dispatch.ErrRegistrySealed) {
		t.Errorf("expected registration to fail after resolve, got %v", err)
	}
}

func TestContainer_Ping(t *testing.T) {
	container, err := NewContainer(testConfig(), memory.New(), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatal(err)
	}
	defer container.Close()

	if err := container.Ping(context.Background()); err != nil {
		t.Errorf("memory backend ping should succeed, got %v", err)
	}
}
