package cacheinfra

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/viccon/sturdyc"
)

const (
	// BackendMemory selects the sturdyc in-process cache.
	BackendMemory = "memory"
	// BackendRedis selects the go-redis backed cache.
	BackendRedis = "redis"
)

// Config holds the configuration for the cache backends.
type Config struct {
	// Backend is either BackendMemory or BackendRedis.
	Backend string

	// Capacity defines the maximum number of entries the in-memory cache can store.
	Capacity int

	// NumShards determines the number of sturdyc shards for concurrent access.
	NumShards int

	// TTL is the time-to-live of cached entries. Entries are still removed
	// explicitly by the ClearCache command; TTL only bounds memory growth.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the in-memory cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration

	Redis RedisConfig
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
	// MaxRetries follows go-redis semantics: 0 uses the default, -1 disables retries.
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendMemory,
		Capacity:           10000,
		NumShards:          16,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			Prefix:      "localization:",
			DialTimeout: 2 * time.Second,
		},
	}
}

// ToSturdycOptions converts the Config to sturdyc options. Capacity, NumShards,
// TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks the configuration of the selected backend.
func (c Config) Validate() error {
	memory := c.Backend == BackendMemory
	redis := c.Backend == BackendRedis

	err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendRedis)),
		validation.Field(&c.Capacity, validation.When(memory, validation.Required, validation.Min(1))),
		validation.Field(&c.NumShards, validation.When(memory, validation.Required, validation.Min(1))),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.EvictionPercentage, validation.When(memory, validation.Required, validation.Min(1), validation.Max(100))),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.Redis, validation.When(redis, validation.By(func(any) error {
			return c.Redis.validate()
		}))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cache configuration")
	}
	return nil
}

// prefixGlobChars would turn the SCAN pattern used by Clear into a wider
// match than the configured namespace.
const prefixGlobChars = `*?[]\`

func (r RedisConfig) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Addr, validation.Required),
		validation.Field(&r.Prefix, validation.Required, validation.By(func(v any) error {
			if s, _ := v.(string); strings.ContainsAny(s, prefixGlobChars) {
				return validation.NewError("validation_redis_prefix_glob", "must not contain any of "+prefixGlobChars)
			}
			return nil
		})),
		validation.Field(&r.DB, validation.Min(0)),
		validation.Field(&r.DialTimeout, validation.Min(time.Duration(0))),
		validation.Field(&r.MaxRetries, validation.Min(-1)),
	)
}
