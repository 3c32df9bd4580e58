// Package config holds the settings the localization provider is built from.
package config

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/text/language"

	"github.com/goliatone/go-localization-provider/cache"
	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/internal/logging"
)

// EnvPrefix prefixes every variable read by FromEnv.
const EnvPrefix = "LOCALIZATION_"

var tagNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config describes the provider. The zero value is not usable, start from
// DefaultConfig.
type Config struct {
	DefaultCulture language.Tag `env:"DEFAULT_CULTURE"`
	// FallbackCultures are tried in order after the requested culture.
	FallbackCultures []language.Tag `env:"FALLBACK_CULTURES" envSeparator:","`
	// EnableInvariantCultureFallback ends every chain with the invariant
	// culture.
	EnableInvariantCultureFallback bool `env:"INVARIANT_FALLBACK"`
	// CustomTags are struct tags that produce additional resources.
	CustomTags []string `env:"CUSTOM_TAGS" envSeparator:","`
	// ForeignResources are types scanned although they carry no marker.
	ForeignResources []reflect.Type

	Cache     cache.Config `envPrefix:"CACHE_"`
	LogLevel  string       `env:"LOG_LEVEL"`
	LogFormat string       `env:"LOG_FORMAT"`
}

// DefaultConfig returns English as the default culture with the invariant
// fallback enabled and an in-memory cache.
func DefaultConfig() Config {
	return Config{
		DefaultCulture:                 language.English,
		EnableInvariantCultureFallback: true,
		Cache:                          cache.DefaultConfig(),
		LogLevel:                       "info",
		LogFormat:                      logging.FormatText,
	}
}

// FromEnv loads DefaultConfig and overrides it with LOCALIZATION_*
// variables, e.g. LOCALIZATION_DEFAULT_CULTURE=sv or
// LOCALIZATION_CACHE_REDIS_ADDR=redis:6379.
func FromEnv() (Config, error) {
	return FromEnvironment(nil)
}

// FromEnvironment is FromEnv reading from vars instead of the process
// environment. A nil map reads the process environment.
func FromEnvironment(vars map[string]string) (Config, error) {
	cfg := DefaultConfig()
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(language.Tag{}): parseCulture,
		},
	})
	if err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "load configuration from environment")
	}
	return cfg, nil
}

func parseCulture(value string) (any, error) {
	tag, err := culture.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid culture %q: %w", value, err)
	}
	return tag, nil
}

// Validate checks the configuration, including the cache section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DefaultCulture, validation.By(func(any) error {
			if culture.IsInvariant(c.DefaultCulture) {
				return validation.NewError("validation_invariant_culture", "must not be the invariant culture")
			}
			return nil
		})),
		validation.Field(&c.CustomTags, validation.Each(validation.Required, validation.Match(tagNamePattern))),
		validation.Field(&c.ForeignResources, validation.Each(validation.By(func(v any) error {
			if v == nil {
				return validation.NewError("validation_nil_type", "must not be nil")
			}
			return nil
		}))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.LogFormat, validation.In(logging.FormatText, logging.FormatJSON)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid localization configuration")
	}
	return c.Cache.Validate()
}

// Chain builds the default fallback chain.
func (c Config) Chain() *culture.Chain {
	return culture.NewChain(c.EnableInvariantCultureFallback, c.FallbackCultures...)
}

// Cultures builds a collection whose default chain is Chain.
func (c Config) Cultures() *culture.Collection {
	return culture.NewCollection(c.Chain())
}

// LoggerOptions maps the logging settings to logging.Options.
func (c Config) LoggerOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, Format: c.LogFormat}
}
