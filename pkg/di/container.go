package di

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-localization-provider/cache"
	"github.com/goliatone/go-localization-provider/config"
	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/discovery"
	"github.com/goliatone/go-localization-provider/dispatch"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/resourcecache"
	"github.com/goliatone/go-localization-provider/resources"
	"github.com/goliatone/go-localization-provider/resourcesync"
)

// ErrMissingFactory is returned when a registered handler or decorator type
// has no factory. Register one with Provide.
var ErrMissingFactory = goerrors.New("no factory provided for handler type", goerrors.CategoryInternal).
	WithTextCode("MISSING_FACTORY")

// Factory builds one handler or decorator instance.
type Factory func(c *Container) (any, error)

// Container wires the provider together. It owns the cache manager, the
// handler registry and the dispatchers, and is the construction callback the
// registry uses to build pipelines.
type Container struct {
	config        config.Config
	logger        *slog.Logger
	repository    resources.Repository
	cacheManager  cache.Manager
	readThrough   *cache.ReadThrough
	keySerializer cache.KeySerializer
	cultures      *culture.Collection
	registry      *dispatch.Registry
	queries       *dispatch.QueryDispatcher
	commands      *dispatch.CommandDispatcher
	factories     *xsync.MapOf[reflect.Type, Factory]
	provider      *resources.Provider
	discoverer    *discovery.Discoverer
	synchronizer  *resourcesync.Synchronizer
}

type options struct {
	logger        *slog.Logger
	cacheManager  cache.Manager
	keySerializer cache.KeySerializer
	codec         cache.Codec
	setup         []func(*Container) error
	scanners      []discovery.Scanner
}

// Option customizes NewContainer.
type Option func(*options)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCacheManager uses manager instead of building one from the cache
// configuration. The container closes it on Close.
func WithCacheManager(manager cache.Manager) Option {
	return func(o *options) { o.cacheManager = manager }
}

// WithKeySerializer replaces the default cache key serializer.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(o *options) { o.keySerializer = serializer }
}

// WithCodec replaces the msgpack codec used for cached values.
func WithCodec(codec cache.Codec) Option {
	return func(o *options) { o.codec = codec }
}

// WithScanners appends discovery scanners after the built-in ones.
func WithScanners(scanners ...discovery.Scanner) Option {
	return func(o *options) { o.scanners = append(o.scanners, scanners...) }
}

// WithSetup runs fn after the default handlers are registered and before
// the registry is handed its constructor. Use it to override handlers, add
// decorators and Provide their factories.
func WithSetup(fn func(*Container) error) Option {
	return func(o *options) { o.setup = append(o.setup, fn) }
}

// NewContainer validates cfg and builds a container around repo.
func NewContainer(cfg config.Config, repo resources.Repository, opts ...Option) (*Container, error) {
	if repo == nil {
		return nil, fmt.Errorf("di: %w: nil repository", dispatch.ErrInvalidHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.New(cfg.LoggerOptions())
	}

	manager := o.cacheManager
	if manager == nil {
		var err error
		if manager, err = cache.NewManager(cfg.Cache); err != nil {
			return nil, err
		}
	}

	keySerializer := o.keySerializer
	if keySerializer == nil {
		keySerializer = cache.NewDefaultKeySerializer()
	}
	codec := o.codec
	if codec == nil {
		codec = cache.MsgpackCodec{}
	}

	registry := dispatch.NewRegistry(logger)
	c := &Container{
		config:        cfg,
		logger:        logger,
		repository:    repo,
		cacheManager:  manager,
		readThrough:   cache.NewReadThrough(manager, codec, logger),
		keySerializer: keySerializer,
		cultures:      cfg.Cultures(),
		registry:      registry,
		queries:       dispatch.NewQueryDispatcher(registry, logger),
		commands:      dispatch.NewCommandDispatcher(registry, logger),
		factories:     xsync.NewMapOf[reflect.Type, Factory](),
	}
	c.provider = resources.NewProvider(c.queries, logger)
	c.discoverer = discovery.NewDiscoverer(discovery.Options{
		DefaultCulture: cfg.DefaultCulture,
		CustomTags:     cfg.CustomTags,
		ForeignTypes:   cfg.ForeignResources,
		Logger:         logger,
	}, o.scanners...)
	c.synchronizer = resourcesync.New(c.discoverer, repo, c.commands, logger)

	if err := c.registerDefaults(); err != nil {
		_ = manager.Close()
		return nil, err
	}
	for _, fn := range o.setup {
		if err := fn(c); err != nil {
			_ = manager.Close()
			return nil, err
		}
	}
	if err := registry.SetConstructor(c.construct); err != nil {
		_ = manager.Close()
		return nil, err
	}

	c.logMissingFactories()
	return c, nil
}

// NewContainerWithDefaults builds a container from config.DefaultConfig.
func NewContainerWithDefaults(repo resources.Repository, opts ...Option) (*Container, error) {
	return NewContainer(config.DefaultConfig(), repo, opts...)
}

func (c *Container) registerDefaults() error {
	steps := []func() error{
		func() error {
			return dispatch.SetQueryHandler[resources.GetAllResources, *resources.GetAllResourcesHandler](c.registry)
		},
		func() error {
			return dispatch.DecorateQuery[resources.GetAllResources, *resourcecache.CachedGetAllResourcesHandler](c.registry)
		},
		func() error {
			return dispatch.SetQueryHandler[resources.GetTranslation, *resources.GetTranslationHandler](c.registry)
		},
		func() error {
			return dispatch.SetQueryHandler[resources.DetermineDefaultCulture, *resources.DetermineDefaultCultureHandler](c.registry)
		},
		func() error {
			return dispatch.SetQueryHandler[resources.AvailableLanguages, *resources.AvailableLanguagesHandler](c.registry)
		},
		func() error {
			return dispatch.SetCommandHandler[resources.ClearCache, *resourcecache.ClearCacheHandler](c.registry)
		},
		func() error {
			return Provide(c, func(c *Container) (*resources.GetAllResourcesHandler, error) {
				return resources.NewGetAllResourcesHandler(c.repository), nil
			})
		},
		func() error {
			return Provide(c, func(c *Container) (*resourcecache.CachedGetAllResourcesHandler, error) {
				return resourcecache.NewCachedGetAllResourcesHandler(c.readThrough, c.keySerializer, c.logger), nil
			})
		},
		func() error {
			return Provide(c, func(c *Container) (*resources.GetTranslationHandler, error) {
				return resources.NewGetTranslationHandler(c.queries, c.cultures), nil
			})
		},
		func() error {
			return Provide(c, func(c *Container) (*resources.DetermineDefaultCultureHandler, error) {
				return resources.NewDetermineDefaultCultureHandler(c.config.DefaultCulture), nil
			})
		},
		func() error {
			return Provide(c, func(c *Container) (*resources.AvailableLanguagesHandler, error) {
				return resources.NewAvailableLanguagesHandler(c.queries), nil
			})
		},
		func() error {
			return Provide(c, func(c *Container) (*resourcecache.ClearCacheHandler, error) {
				return resourcecache.NewClearCacheHandler(c.cacheManager, c.logger), nil
			})
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Provide registers the factory used to build handlers and decorators of
// type T. A later call for the same type replaces the factory. It fails once
// the registry has resolved a pipeline.
func Provide[T any](c *Container, factory func(*Container) (T, error)) error {
	if c.registry.Sealed() {
		return dispatch.ErrRegistrySealed
	}
	t := reflect.TypeFor[T]()
	c.factories.Store(t, func(c *Container) (any, error) {
		return factory(c)
	})
	return nil
}

// construct is the registry's constructor callback. Every type must have a
// factory; a bare Registry without a constructor uses zero values instead.
func (c *Container) construct(t reflect.Type) (any, error) {
	if factory, ok := c.factories.Load(t); ok {
		return factory(c)
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingFactory, t)
}

func (c *Container) logMissingFactories() {
	for _, t := range c.registry.HandlerTypes() {
		if _, ok := c.factories.Load(t); !ok {
			c.logger.Warn("handler has no factory, resolving it will fail", "type", t.String())
		}
	}
}

// Config returns the configuration the container was built with.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

func (c *Container) Repository() resources.Repository {
	return c.repository
}

// CacheManager returns the cache backend.
func (c *Container) CacheManager() cache.Manager {
	return c.cacheManager
}

// ReadThrough returns the read-through helper shared by cached handlers.
func (c *Container) ReadThrough() *cache.ReadThrough {
	return c.readThrough
}

func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Cultures returns the culture chains used to resolve translations. Extra
// per-culture chains may be added during setup.
func (c *Container) Cultures() *culture.Collection {
	return c.cultures
}

// Registry returns the handler registry. It accepts registrations until the
// first query or command is executed.
func (c *Container) Registry() *dispatch.Registry {
	return c.registry
}

func (c *Container) Queries() dispatch.QueryExecutor {
	return c.queries
}

func (c *Container) Commands() dispatch.CommandExecutor {
	return c.commands
}

// Provider returns the lookup API.
func (c *Container) Provider() *resources.Provider {
	return c.provider
}

func (c *Container) Discoverer() *discovery.Discoverer {
	return c.discoverer
}

// Synchronizer returns the synchronizer writing discovered resources to the
// repository.
func (c *Container) Synchronizer() *resourcesync.Synchronizer {
	return c.synchronizer
}

// Ping checks the cache backend when it supports it.
func (c *Container) Ping(ctx context.Context) error {
	if p, ok := c.cacheManager.(cache.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the cache backend. The repository is owned by the caller.
func (c *Container) Close() error {
	return c.cacheManager.Close()
}
