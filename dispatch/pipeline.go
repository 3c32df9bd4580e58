package dispatch

import "context"

// QueryPipeline is a resolved chain of decorators around a base handler.
type QueryPipeline struct {
	shape      Shape
	base       QueryHandler
	decorators []QueryDecorator
	entry      QueryHandler
}

// newQueryPipeline composes decorators in registration order, so the last
// one registered becomes the entry point.
func newQueryPipeline(shape Shape, base QueryHandler, decorators []QueryDecorator) *QueryPipeline {
	entry := base
	for _, d := range decorators {
		entry = wrapQuery(d, entry)
	}
	return &QueryPipeline{shape: shape, base: base, decorators: decorators, entry: entry}
}

func wrapQuery(d QueryDecorator, next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query any) (any, error) {
		return d.Execute(ctx, query, next)
	})
}

func (p *QueryPipeline) Shape() Shape { return p.shape }

// Depth is the number of decorators around the base handler.
func (p *QueryPipeline) Depth() int { return len(p.decorators) }

// Execute runs the outermost stage.
func (p *QueryPipeline) Execute(ctx context.Context, query any) (any, error) {
	return p.entry.Execute(ctx, query)
}

// CommandPipeline is the command side counterpart of QueryPipeline.
type CommandPipeline struct {
	shape      Shape
	base       CommandHandler
	decorators []CommandDecorator
	entry      CommandHandler
}

func newCommandPipeline(shape Shape, base CommandHandler, decorators []CommandDecorator) *CommandPipeline {
	entry := base
	for _, d := range decorators {
		entry = wrapCommand(d, entry)
	}
	return &CommandPipeline{shape: shape, base: base, decorators: decorators, entry: entry}
}

func wrapCommand(d CommandDecorator, next CommandHandler) CommandHandler {
	return CommandHandlerFunc(func(ctx context.Context, cmd any) error {
		return d.Execute(ctx, cmd, next)
	})
}

func (p *CommandPipeline) Shape() Shape { return p.shape }

func (p *CommandPipeline) Depth() int { return len(p.decorators) }

func (p *CommandPipeline) Execute(ctx context.Context, cmd any) error {
	return p.entry.Execute(ctx, cmd)
}
