package resources

import (
	"time"

	"github.com/goliatone/go-localization-provider/culture"
	"golang.org/x/text/language"
)

// Translation is the value of a resource in one culture. An empty Language
// is the invariant culture.
type Translation struct {
	Language string `json:"language" msgpack:"language" toml:"language"`
	Value    string `json:"value" msgpack:"value" toml:"value"`
}

// LocalizationResource is a translatable string identified by ResourceKey.
type LocalizationResource struct {
	ID               string        `json:"id" msgpack:"id"`
	ResourceKey      string        `json:"resource_key" msgpack:"resource_key"`
	Author           string        `json:"author" msgpack:"author"`
	FromCode         bool          `json:"from_code" msgpack:"from_code"`
	IsModified       bool          `json:"is_modified" msgpack:"is_modified"`
	IsHidden         bool          `json:"is_hidden" msgpack:"is_hidden"`
	ModificationDate time.Time     `json:"modification_date" msgpack:"modification_date"`
	Translations     []Translation `json:"translations" msgpack:"translations"`
}

// TranslationFor returns the translation stored for tag.
func (r LocalizationResource) TranslationFor(tag language.Tag) (string, bool) {
	name := culture.Name(tag)
	for _, t := range r.Translations {
		if t.Language == name {
			return t.Value, true
		}
	}
	return "", false
}

// SetTranslation adds or replaces the translation for tag.
func (r *LocalizationResource) SetTranslation(tag language.Tag, value string) {
	name := culture.Name(tag)
	for i := range r.Translations {
		if r.Translations[i].Language == name {
			r.Translations[i].Value = value
			return
		}
	}
	r.Translations = append(r.Translations, Translation{Language: name, Value: value})
}

// Languages returns the cultures this resource has translations for, in
// stored order. Unparseable language names are skipped.
func (r LocalizationResource) Languages() []language.Tag {
	tags := make([]language.Tag, 0, len(r.Translations))
	for _, t := range r.Translations {
		tag, err := culture.Parse(t.Language)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// Clone returns a deep copy.
func (r LocalizationResource) Clone() LocalizationResource {
	r.Translations = append([]Translation(nil), r.Translations...)
	return r
}
