// Package export turns stored resources into go-i18n message bundles and
// message files.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/resources"
)

// FileName returns the go-i18n message file name for tag.
func FileName(tag language.Tag) string {
	return fmt.Sprintf("messages.%s.toml", tag.String())
}

// ToBundle builds a bundle with one message set per culture present in
// list plus defaultCulture. Each message holds the value found by walking
// chain from that culture, so a bundle language never depends on go-i18n
// falling back on its own. A nil chain falls back to defaultCulture and
// then the invariant culture.
func ToBundle(list []resources.LocalizationResource, defaultCulture language.Tag, chain *culture.Chain) (*i18n.Bundle, error) {
	if culture.IsInvariant(defaultCulture) {
		return nil, fmt.Errorf("export: default culture must not be the invariant culture")
	}
	if chain == nil {
		chain = culture.NewChain(true, defaultCulture)
	}

	bundle := i18n.NewBundle(defaultCulture)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, tag := range bundleCultures(list, defaultCulture) {
		messages := resolvedMessages(list, tag, chain)
		if len(messages) == 0 {
			continue
		}
		if err := bundle.AddMessages(tag, messages...); err != nil {
			return nil, fmt.Errorf("export: add %s messages: %w", tag, err)
		}
	}
	return bundle, nil
}

func bundleCultures(list []resources.LocalizationResource, defaultCulture language.Tag) []language.Tag {
	out := []language.Tag{defaultCulture}
	for _, tag := range Cultures(list) {
		if culture.IsInvariant(tag) || tag == defaultCulture {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func resolvedMessages(list []resources.LocalizationResource, tag language.Tag, chain *culture.Chain) []*i18n.Message {
	messages := make([]*i18n.Message, 0, len(list))
	for i := range list {
		res := &list[i]
		value, _, found := chain.Lookup(tag, res.TranslationFor)
		if !found {
			continue
		}
		messages = append(messages, &i18n.Message{ID: res.ResourceKey, Other: value})
	}
	return messages
}

// WriteTOML writes the translations of list for tag as a go-i18n TOML
// message file. Resources without a translation for tag are left out.
func WriteTOML(w io.Writer, list []resources.LocalizationResource, tag language.Tag) error {
	messages := make(map[string]string)
	for _, res := range list {
		if value, ok := res.TranslationFor(tag); ok {
			messages[res.ResourceKey] = value
		}
	}

	if err := toml.NewEncoder(w).Encode(messages); err != nil {
		return fmt.Errorf("export: encode %s: %w", FileName(tag), err)
	}
	return nil
}

// Cultures lists the cultures present in list, sorted by name.
func Cultures(list []resources.LocalizationResource) []language.Tag {
	seen := make(map[language.Tag]struct{})
	for _, res := range list {
		for _, tag := range res.Languages() {
			seen[tag] = struct{}{}
		}
	}

	out := make([]language.Tag, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool {
		return culture.Name(out[i]) < culture.Name(out[j])
	})
	return out
}
