package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-localization-provider/internal/logging"
)

// QueryExecutor runs queries. QueryDispatcher is the standard implementation.
type QueryExecutor interface {
	Execute(ctx context.Context, query any) (any, error)
}

// CommandExecutor runs commands.
type CommandExecutor interface {
	Execute(ctx context.Context, cmd any) error
}

// QueryDispatcher resolves a pipeline per call and runs it. Errors from
// resolution and from handlers are returned unchanged.
type QueryDispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewQueryDispatcher(registry *Registry, logger *slog.Logger) *QueryDispatcher {
	return &QueryDispatcher{registry: registry, logger: logging.OrDiscard(logger)}
}

func (d *QueryDispatcher) Execute(ctx context.Context, query any) (any, error) {
	if query == nil {
		return nil, ErrNilRequest
	}

	pipeline, err := d.registry.ResolveQuery(ShapeOf(query))
	if err != nil {
		d.logger.DebugContext(ctx, "query resolve failed", "shape", ShapeOf(query), "error", err)
		return nil, err
	}
	return pipeline.Execute(ctx, query)
}

// CommandDispatcher is the command side counterpart of QueryDispatcher.
type CommandDispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewCommandDispatcher(registry *Registry, logger *slog.Logger) *CommandDispatcher {
	return &CommandDispatcher{registry: registry, logger: logging.OrDiscard(logger)}
}

func (d *CommandDispatcher) Execute(ctx context.Context, cmd any) error {
	if cmd == nil {
		return ErrNilRequest
	}

	pipeline, err := d.registry.ResolveCommand(ShapeOf(cmd))
	if err != nil {
		d.logger.DebugContext(ctx, "command resolve failed", "shape", ShapeOf(cmd), "error", err)
		return err
	}
	return pipeline.Execute(ctx, cmd)
}

// ExecuteQuery runs query and asserts the result to R. A nil result yields
// the zero R.
func ExecuteQuery[R any](ctx context.Context, exec QueryExecutor, query any) (R, error) {
	var zero R

	result, err := exec.Execute(ctx, query)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(R)
	if !ok {
		return zero, goerrors.New(
			fmt.Sprintf("query %s returned %T, expected %T", ShapeOf(query), result, zero),
			goerrors.CategoryInternal,
		).WithTextCode("UNEXPECTED_RESULT_TYPE")
	}
	return typed, nil
}

// RequestAs asserts a dispatched request to Q, accepting both Q and *Q.
// Handlers use it to unpack their input.
func RequestAs[Q any](req any) (Q, error) {
	switch v := req.(type) {
	case Q:
		return v, nil
	case *Q:
		if v != nil {
			return *v, nil
		}
	}

	var zero Q
	return zero, goerrors.New(
		fmt.Sprintf("unexpected request %T, expected %s", req, ShapeFor[Q]()),
		goerrors.CategoryBadInput,
	).WithTextCode("UNEXPECTED_REQUEST")
}
