package discovery

import (
	"fmt"
	"reflect"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-localization-provider/keys"
)

// Scanner is one discovery strategy. Scan must check and mark the type in
// state before recursing, and return entries in declaration order.
type Scanner interface {
	Name() string
	ShouldScan(t reflect.Type) bool
	Scan(t reflect.Type, state *ScanState) ([]ResourceEntry, error)
}

// ModelTypeScanner handles structs embedding LocalizedModel. Each exported
// field is a resource. Member types are expanded only when a scanner of the
// discoverer accepts them.
type ModelTypeScanner struct {
	walker structWalker
}

func NewModelTypeScanner(opts Options) *ModelTypeScanner {
	return &ModelTypeScanner{walker: structWalker{builder: opts.builder()}}
}

func (s *ModelTypeScanner) Name() string { return "model" }

func (s *ModelTypeScanner) ShouldScan(t reflect.Type) bool {
	return embeds(t, localizedModelType)
}

func (s *ModelTypeScanner) Scan(t reflect.Type, state *ScanState) ([]ResourceEntry, error) {
	return s.walker.walk(t, state)
}

// ResourceTypeScanner handles structs embedding LocalizedResource. Only
// string fields are resources.
type ResourceTypeScanner struct {
	walker structWalker
}

func NewResourceTypeScanner(opts Options) *ResourceTypeScanner {
	return &ResourceTypeScanner{walker: structWalker{builder: opts.builder(), stringsOnly: true}}
}

func (s *ResourceTypeScanner) Name() string { return "resource" }

func (s *ResourceTypeScanner) ShouldScan(t reflect.Type) bool {
	return embeds(t, localizedResourceType)
}

func (s *ResourceTypeScanner) Scan(t reflect.Type, state *ScanState) ([]ResourceEntry, error) {
	return s.walker.walk(t, state)
}

// EnumTypeScanner handles concrete types implementing Enumeration.
type EnumTypeScanner struct {
	builder entryBuilder
}

func NewEnumTypeScanner(opts Options) *EnumTypeScanner {
	return &EnumTypeScanner{builder: opts.builder()}
}

func (s *EnumTypeScanner) Name() string { return "enum" }

func (s *EnumTypeScanner) ShouldScan(t reflect.Type) bool {
	t = indirect(t)
	return t != nil && t.Kind() != reflect.Interface && t.Implements(enumerationType)
}

func (s *EnumTypeScanner) Scan(t reflect.Type, state *ScanState) ([]ResourceEntry, error) {
	t = indirect(t)
	if !s.ShouldScan(t) {
		return nil, goerrors.New(fmt.Sprintf("%s is not a concrete Enumeration type", t), goerrors.CategoryBadInput).
			WithTextCode("NOT_AN_ENUMERATION")
	}
	if !state.Visit(t) {
		return nil, nil
	}

	source := keys.TypeKey(t)
	members := reflect.Zero(t).Interface().(Enumeration).EnumMembers()

	entries := make([]ResourceEntry, 0, len(members))
	for _, m := range members {
		text := m.Translation
		if text == "" {
			text = m.Name
		}

		base := s.builder.entry(keys.BuildKey(t, m.Name), "", source, text, m.Translations, m.Hidden)
		entries = append(entries, base)
		if m.Description != "" {
			entries = append(entries, s.builder.companion(base, DescriptionSuffix, m.Description))
		}
	}
	return entries, nil
}

// ForeignResourceTypeScanner handles types the application does not own and
// cannot mark, opted in through Options.ForeignTypes. They are scanned like
// models.
type ForeignResourceTypeScanner struct {
	walker structWalker
	types  map[reflect.Type]struct{}
}

func NewForeignResourceTypeScanner(opts Options) *ForeignResourceTypeScanner {
	types := make(map[reflect.Type]struct{}, len(opts.ForeignTypes))
	for _, t := range opts.ForeignTypes {
		if t = indirect(t); t != nil {
			types[t] = struct{}{}
		}
	}
	return &ForeignResourceTypeScanner{walker: structWalker{builder: opts.builder()}, types: types}
}

func (s *ForeignResourceTypeScanner) Name() string { return "foreign" }

func (s *ForeignResourceTypeScanner) ShouldScan(t reflect.Type) bool {
	_, ok := s.types[indirect(t)]
	return ok
}

func (s *ForeignResourceTypeScanner) Scan(t reflect.Type, state *ScanState) ([]ResourceEntry, error) {
	return s.walker.walk(t, state)
}
