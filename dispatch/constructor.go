package dispatch

import "reflect"

// Constructor builds a handler or decorator of type t. The registry never
// decides object lifetime itself; a DI container usually supplies this.
type Constructor func(t reflect.Type) (any, error)

// DefaultConstructor allocates a zero value of t. For pointer types it
// returns a pointer to a new zero element.
func DefaultConstructor(t reflect.Type) (any, error) {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface(), nil
	}
	return reflect.Zero(t).Interface(), nil
}
