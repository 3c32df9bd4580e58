package discovery

import (
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-localization-provider/culture"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Struct tags read during discovery.
const (
	// TagDisplay holds the code-declared translation.
	TagDisplay = "display"
	// TagDescription emits a companion "<key>-Description" resource.
	TagDescription = "description"
	// TagTranslations holds extra translations: `translations:"sv=Hej|no=Hei"`.
	TagTranslations = "translations"
	// TagLocalize holds options: "-" skips the field, "hidden" hides the
	// resource, "key=Some.Key" replaces the derived key.
	TagLocalize = "localize"

	DescriptionSuffix = "-Description"
)

type fieldOptions struct {
	skip   bool
	hidden bool
	key    string
}

func parseLocalize(tag string) fieldOptions {
	var opts fieldOptions
	if strings.TrimSpace(tag) == "-" {
		opts.skip = true
		return opts
	}

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "hidden":
			opts.hidden = true
		case strings.HasPrefix(part, "key="):
			opts.key = strings.TrimSpace(strings.TrimPrefix(part, "key="))
		}
	}
	return opts
}

// parseTranslations reads "culture=value" pairs separated by "|". Culture
// names are normalised; an empty name is the invariant culture.
func parseTranslations(tag string) (map[string]string, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, nil
	}

	out := make(map[string]string)
	for _, pair := range strings.Split(tag, "|") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, goerrors.New(fmt.Sprintf("malformed translation %q, expected culture=value", pair), goerrors.CategoryValidation).
				WithTextCode("INVALID_TRANSLATION_TAG")
		}
		tag, err := culture.Parse(name)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("unknown culture %q", name)).
				WithTextCode("INVALID_TRANSLATION_TAG")
		}
		out[culture.Name(tag)] = value
	}
	return out, nil
}

type customTag struct {
	name   string
	suffix string
}

// newCustomTags pairs each tag name with the key suffix it produces,
// "placeholder" becoming "-Placeholder".
func newCustomTags(names []string) []customTag {
	caser := cases.Title(language.Und, cases.NoLower)
	tags := make([]customTag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tags = append(tags, customTag{name: name, suffix: "-" + caser.String(name)})
	}
	return tags
}
