package resources

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/goliatone/go-localization-provider/dispatch"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/keys"
	"golang.org/x/text/language"
)

// Provider is the lookup API applications use. A missing translation
// returns an empty string and no error.
type Provider struct {
	queries dispatch.QueryExecutor
	logger  *slog.Logger
}

func NewProvider(queries dispatch.QueryExecutor, logger *slog.Logger) *Provider {
	return &Provider{queries: queries, logger: logging.OrDiscard(logger)}
}

// DefaultCulture asks the pipeline for the default culture.
func (p *Provider) DefaultCulture(ctx context.Context) (language.Tag, error) {
	return dispatch.ExecuteQuery[language.Tag](ctx, p.queries, DetermineDefaultCulture{})
}

// GetString returns the translation of key in the default culture.
func (p *Provider) GetString(ctx context.Context, key string) (string, error) {
	tag, err := p.DefaultCulture(ctx)
	if err != nil {
		return "", err
	}
	return p.GetStringByCulture(ctx, key, tag)
}

// GetStringByCulture returns the translation of key for tag.
func (p *Provider) GetStringByCulture(ctx context.Context, key string, tag language.Tag) (string, error) {
	value, _, err := p.Lookup(ctx, key, tag)
	return value, err
}

// Lookup returns the translation of key for tag and whether one was found
// anywhere on the fallback chain.
func (p *Provider) Lookup(ctx context.Context, key string, tag language.Tag) (string, bool, error) {
	result, err := dispatch.ExecuteQuery[TranslationResult](ctx, p.queries, GetTranslation{Key: key, Culture: tag})
	if err != nil {
		return "", false, err
	}
	if !result.Found {
		p.logger.DebugContext(ctx, "translation not found", "key", key, "culture", tag.String())
	}
	return result.Value, result.Found, nil
}

// GetStringByType looks up the key built from t and member.
func (p *Provider) GetStringByType(ctx context.Context, t reflect.Type, member string, tag language.Tag) (string, error) {
	return p.GetStringByCulture(ctx, keys.BuildKey(t, member), tag)
}

// AvailableLanguages returns the cultures present in storage.
func (p *Provider) AvailableLanguages(ctx context.Context, includeInvariant bool) ([]language.Tag, error) {
	return dispatch.ExecuteQuery[[]language.Tag](ctx, p.queries, AvailableLanguages{IncludeInvariant: includeInvariant})
}
