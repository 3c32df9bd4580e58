// Package keys derives resource keys from Go types and member names.
//
// A key is the type's package path and name followed by the member path,
// for example "github.com/acme/shop/models.Product.Title". Types can pick a
// shorter namespace by implementing KeyPrefixer. Keys never depend on
// process state or locale.
package keys

import (
	"reflect"
	"strings"
)

// Separator joins key segments.
const Separator = "."

// KeyPrefixer lets a type choose the namespace of its keys.
type KeyPrefixer interface {
	ResourceKeyPrefix() string
}

var prefixerType = reflect.TypeOf((*KeyPrefixer)(nil)).Elem()

// TypeKey returns the key namespace of t. Pointers are stripped.
func TypeKey(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Interface && t.Implements(prefixerType) {
		return reflect.Zero(t).Interface().(KeyPrefixer).ResourceKeyPrefix()
	}
	if reflect.PointerTo(t).Implements(prefixerType) {
		return reflect.New(t).Interface().(KeyPrefixer).ResourceKeyPrefix()
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + Separator + t.Name()
}

// BuildKey returns the key of member on t. An empty member yields the type
// key itself.
func BuildKey(t reflect.Type, member string) string {
	return join(TypeKey(t), member)
}

// For is BuildKey for a type parameter.
func For[T any](member string) string {
	return BuildKey(reflect.TypeFor[T](), member)
}

// BuildOldKey returns the legacy key of member on t. Legacy keys attribute a
// field promoted from an embedded struct to the embedded type that declares
// it. For directly declared members it equals BuildKey.
func BuildOldKey(t reflect.Type, member string) string {
	return join(TypeKey(declaringType(t, member)), member)
}

func join(typeKey, member string) string {
	if member == "" {
		return typeKey
	}
	return typeKey + Separator + member
}

// declaringType resolves the struct that declares the first segment of
// member, following embedded fields.
func declaringType(t reflect.Type, member string) reflect.Type {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || member == "" {
		return t
	}

	name, _, _ := strings.Cut(member, Separator)
	field, ok := t.FieldByName(name)
	if !ok || len(field.Index) < 2 {
		return t
	}

	owner := t
	for _, i := range field.Index[:len(field.Index)-1] {
		owner = owner.Field(i).Type
		for owner.Kind() == reflect.Pointer {
			owner = owner.Elem()
		}
	}
	return owner
}
