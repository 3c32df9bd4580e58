package dispatch

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrRegistrySealed is returned for registration calls made after the
	// first resolve.
	ErrRegistrySealed = goerrors.New("handler registry is sealed", goerrors.CategoryConflict).
		WithTextCode("REGISTRY_SEALED")

	// ErrConstructorAlreadySet is returned when SetConstructor is called twice.
	ErrConstructorAlreadySet = goerrors.New("handler constructor already set", goerrors.CategoryConflict).
		WithTextCode("CONSTRUCTOR_ALREADY_SET")

	// ErrInvalidHandler is returned when a type or constructed value does not
	// implement the expected handler or decorator interface.
	ErrInvalidHandler = goerrors.New("invalid handler", goerrors.CategoryBadInput).
		WithTextCode("INVALID_HANDLER")

	// ErrNilRequest is returned when nil is dispatched.
	ErrNilRequest = goerrors.New("request is nil", goerrors.CategoryBadInput).
		WithTextCode("NIL_REQUEST")
)

// HandlerNotFoundError reports a shape with no base handler registered.
type HandlerNotFoundError struct {
	Kind  Kind
	Shape Shape
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no %s handler registered for %s", e.Kind, e.Shape)
}

// IsHandlerNotFound reports whether err is or wraps a HandlerNotFoundError.
func IsHandlerNotFound(err error) bool {
	var target *HandlerNotFoundError
	return goerrors.As(err, &target)
}
