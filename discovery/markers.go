package discovery

import "reflect"

// LocalizedModel marks a view model. Every exported field of a struct that
// embeds it becomes a resource.
type LocalizedModel struct{}

// LocalizedResource marks a resource type. Its exported string fields become
// resources.
type LocalizedResource struct{}

// EnumMember describes one value of an enumeration.
type EnumMember struct {
	Name string
	// Translation defaults to Name.
	Translation  string
	Translations map[string]string
	Description  string
	Hidden       bool
}

// Enumeration is implemented by enum types. EnumMembers is called on the
// zero value.
type Enumeration interface {
	EnumMembers() []EnumMember
}

var (
	localizedModelType    = reflect.TypeOf(LocalizedModel{})
	localizedResourceType = reflect.TypeOf(LocalizedResource{})
	enumerationType       = reflect.TypeOf((*Enumeration)(nil)).Elem()
)

// embeds reports whether struct t embeds marker directly.
func embeds(t reflect.Type, marker reflect.Type) bool {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && indirect(f.Type) == marker {
			return true
		}
	}
	return false
}
