package dispatch

import (
	"context"
	"reflect"
)

// QueryHandler answers a query. Queries are reads and may be cached.
type QueryHandler interface {
	Execute(ctx context.Context, query any) (any, error)
}

// QueryHandlerFunc adapts a function to QueryHandler.
type QueryHandlerFunc func(ctx context.Context, query any) (any, error)

func (f QueryHandlerFunc) Execute(ctx context.Context, query any) (any, error) {
	return f(ctx, query)
}

// QueryDecorator wraps a query pipeline stage. It may return without calling
// next, which is how cache hits short-circuit the base handler.
type QueryDecorator interface {
	Execute(ctx context.Context, query any, next QueryHandler) (any, error)
}

// QueryDecoratorFunc adapts a function to QueryDecorator.
type QueryDecoratorFunc func(ctx context.Context, query any, next QueryHandler) (any, error)

func (f QueryDecoratorFunc) Execute(ctx context.Context, query any, next QueryHandler) (any, error) {
	return f(ctx, query, next)
}

// CommandHandler performs a mutation.
type CommandHandler interface {
	Execute(ctx context.Context, cmd any) error
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd any) error

func (f CommandHandlerFunc) Execute(ctx context.Context, cmd any) error {
	return f(ctx, cmd)
}

// CommandDecorator wraps a command pipeline stage.
type CommandDecorator interface {
	Execute(ctx context.Context, cmd any, next CommandHandler) error
}

// CommandDecoratorFunc adapts a function to CommandDecorator.
type CommandDecoratorFunc func(ctx context.Context, cmd any, next CommandHandler) error

func (f CommandDecoratorFunc) Execute(ctx context.Context, cmd any, next CommandHandler) error {
	return f(ctx, cmd, next)
}

var (
	queryHandlerType     = reflect.TypeOf((*QueryHandler)(nil)).Elem()
	queryDecoratorType   = reflect.TypeOf((*QueryDecorator)(nil)).Elem()
	commandHandlerType   = reflect.TypeOf((*CommandHandler)(nil)).Elem()
	commandDecoratorType = reflect.TypeOf((*CommandDecorator)(nil)).Elem()
)

// Kind tells query registrations from command registrations.
type Kind string

const (
	KindQuery   Kind = "query"
	KindCommand Kind = "command"
)
