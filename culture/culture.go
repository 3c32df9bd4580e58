// Package culture resolves ordered fallback sequences of cultures.
package culture

import (
	"strings"

	"golang.org/x/text/language"
)

// Invariant is the culture-independent terminal of a chain. Translations
// stored for it have an empty language name.
var Invariant = language.Und

// IsInvariant reports whether tag is the invariant culture.
func IsInvariant(tag language.Tag) bool {
	return tag == Invariant
}

// Name returns the storage name of tag, "" for the invariant culture.
func Name(tag language.Tag) string {
	if IsInvariant(tag) {
		return ""
	}
	return tag.String()
}

// Parse turns a storage name into a tag. An empty name is the invariant
// culture.
func Parse(name string) (language.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invariant, nil
	}
	return language.Parse(name)
}

// MustParse is Parse for static culture names.
func MustParse(name string) language.Tag {
	tag, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return tag
}
