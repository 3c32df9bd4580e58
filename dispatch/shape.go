package dispatch

import "reflect"

// Shape identifies a request type in the registry.
type Shape string

func (s Shape) String() string { return string(s) }

// Shaper lets a request type pin its shape instead of deriving it from the
// package path and type name. RequestShape must not depend on field values.
type Shaper interface {
	RequestShape() Shape
}

var shaperType = reflect.TypeOf((*Shaper)(nil)).Elem()

// ShapeOf returns the shape of the dynamic type of v. Pointers are stripped,
// so T and *T share a shape.
func ShapeOf(v any) Shape {
	return TypeShape(reflect.TypeOf(v))
}

// ShapeFor returns the shape of T.
func ShapeFor[T any]() Shape {
	return TypeShape(reflect.TypeFor[T]())
}

// TypeShape returns the shape of t, or "" for a nil type.
func TypeShape(t reflect.Type) Shape {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Interface && t.Implements(shaperType) {
		return reflect.Zero(t).Interface().(Shaper).RequestShape()
	}
	if reflect.PointerTo(t).Implements(shaperType) {
		return reflect.New(t).Interface().(Shaper).RequestShape()
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return Shape(t.String())
	}
	return Shape(t.PkgPath() + "." + t.Name())
}
