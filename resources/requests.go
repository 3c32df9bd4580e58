package resources

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/text/language"
)

// GetAllResources returns every stored resource. It has no parameters, so
// its result can be cached under a constant key.
type GetAllResources struct{}

// GetTranslation looks up Key for Culture, walking the fallback chain.
type GetTranslation struct {
	Key     string       `json:"key"`
	Culture language.Tag `json:"culture"`
}

// Validate checks the query before it reaches storage.
func (q GetTranslation) Validate() error {
	err := validation.ValidateStruct(&q,
		validation.Field(&q.Key, validation.Required),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid translation query")
	}
	return nil
}

// TranslationResult is the answer to GetTranslation. Found is false when the
// chain was exhausted; that is not an error.
type TranslationResult struct {
	Value   string
	Culture language.Tag
	Found   bool
}

// DetermineDefaultCulture returns the culture used when none is requested.
type DetermineDefaultCulture struct{}

// AvailableLanguages lists the cultures present in stored translations.
type AvailableLanguages struct {
	IncludeInvariant bool
}

// ClearCache drops every cached query result.
type ClearCache struct{}
