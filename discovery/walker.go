package discovery

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/keys"
	"golang.org/x/text/language"
)

// entryBuilder turns declared text into resource entries.
type entryBuilder struct {
	defaultCulture string
	customTags     []customTag
}

func newEntryBuilder(defaultCulture language.Tag, customTags []string) entryBuilder {
	return entryBuilder{
		defaultCulture: culture.Name(defaultCulture),
		customTags:     newCustomTags(customTags),
	}
}

// translations stores text for the invariant culture and the default
// culture, then applies explicit ones on top.
func (b entryBuilder) translations(text string, extra map[string]string) map[string]string {
	out := map[string]string{"": text}
	if b.defaultCulture != "" {
		out[b.defaultCulture] = text
	}
	for name, value := range extra {
		out[name] = value
	}
	return out
}

func (b entryBuilder) entry(key, legacy, source, text string, extra map[string]string, hidden bool) ResourceEntry {
	if legacy == key {
		legacy = ""
	}
	return ResourceEntry{
		Key:          key,
		LegacyKey:    legacy,
		Translations: b.translations(text, extra),
		Hidden:       hidden,
		FromCode:     true,
		SourceType:   source,
	}
}

// companions emits the description and custom tag entries of a member.
func (b entryBuilder) companions(base ResourceEntry, tag reflect.StructTag, description string) []ResourceEntry {
	var out []ResourceEntry
	if description != "" {
		out = append(out, b.companion(base, DescriptionSuffix, description))
	}
	for _, ct := range b.customTags {
		if value, ok := tag.Lookup(ct.name); ok {
			out = append(out, b.companion(base, ct.suffix, value))
		}
	}
	return out
}

func (b entryBuilder) companion(base ResourceEntry, suffix, text string) ResourceEntry {
	legacy := ""
	if base.LegacyKey != "" {
		legacy = base.LegacyKey + suffix
	}
	return ResourceEntry{
		Key:          base.Key + suffix,
		LegacyKey:    legacy,
		Translations: b.translations(text, nil),
		Hidden:       base.Hidden,
		FromCode:     true,
		SourceType:   base.SourceType,
	}
}

// structWalker emits entries for the exported fields of a struct. Member
// types are handed to ScanState.ScanNested depth first, so they are only
// expanded when some scanner accepts them. stringsOnly limits entries to
// string fields.
type structWalker struct {
	builder     entryBuilder
	stringsOnly bool
}

func (w structWalker) walk(t reflect.Type, state *ScanState) ([]ResourceEntry, error) {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, nil
	}
	if !state.Visit(t) {
		return nil, nil
	}

	source := keys.TypeKey(t)
	var entries []ResourceEntry

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}

		opts := parseLocalize(f.Tag.Get(TagLocalize))
		if opts.skip {
			continue
		}

		if !w.stringsOnly || indirect(f.Type).Kind() == reflect.String {
			fieldEntries, err := w.fieldEntries(t, source, f, opts)
			if err != nil {
				return nil, err
			}
			entries = append(entries, fieldEntries...)
		}

		sub, err := state.ScanNested(elementType(f.Type))
		if err != nil {
			return nil, err
		}
		entries = append(entries, sub...)
	}

	return entries, nil
}

func (w structWalker) fieldEntries(owner reflect.Type, source string, f reflect.StructField, opts fieldOptions) ([]ResourceEntry, error) {
	extra, err := parseTranslations(f.Tag.Get(TagTranslations))
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", source, f.Name, err)
	}

	key := keys.BuildKey(owner, f.Name)
	legacy := keys.BuildOldKey(owner, f.Name)
	if opts.key != "" {
		key, legacy = opts.key, ""
	}

	text := f.Tag.Get(TagDisplay)
	if text == "" {
		text = f.Name
	}

	base := w.builder.entry(key, legacy, source, text, extra, opts.hidden)
	return append([]ResourceEntry{base}, w.builder.companions(base, f.Tag, f.Tag.Get(TagDescription))...), nil
}

// elementType looks through pointers, slices, arrays and maps to the type a
// member holds.
func elementType(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
}
