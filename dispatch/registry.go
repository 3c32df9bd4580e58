package dispatch

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-localization-provider/internal/logging"
)

// Registration describes what is registered for one shape.
type Registration struct {
	Kind       Kind
	Shape      Shape
	Handler    reflect.Type
	Decorators []reflect.Type
	Overridden bool
}

type registration struct {
	handler    reflect.Type
	decorators []reflect.Type
	overridden bool
}

// Registry maps request shapes to handler and decorator types.
//
// Registration is meant to happen during a single-threaded setup phase. The
// first Resolve seals the registry and later registration calls fail with
// ErrRegistrySealed.
type Registry struct {
	mu          sync.RWMutex
	queries     map[Shape]*registration
	commands    map[Shape]*registration
	constructor Constructor
	sealed      atomic.Bool
	logger      *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		queries:  make(map[Shape]*registration),
		commands: make(map[Shape]*registration),
		logger:   logging.OrDiscard(logger).With("component", "dispatch"),
	}
}

// SetConstructor installs the construction callback. It may be called once,
// before the first resolve.
func (r *Registry) SetConstructor(c Constructor) error {
	if c == nil {
		return fmt.Errorf("%w: nil constructor", ErrInvalidHandler)
	}
	if r.sealed.Load() {
		return ErrRegistrySealed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.constructor != nil {
		return ErrConstructorAlreadySet
	}
	r.constructor = c
	return nil
}

// Sealed reports whether the registry has served a resolve.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// RegisterQueryHandler registers the base handler for shape. The first
// registration wins; later calls for the same shape are no-ops.
func (r *Registry) RegisterQueryHandler(shape Shape, handler reflect.Type) error {
	return r.register(KindQuery, shape, handler, queryHandlerType, false)
}

// RegisterCommandHandler registers the base handler for a command shape.
func (r *Registry) RegisterCommandHandler(shape Shape, handler reflect.Type) error {
	return r.register(KindCommand, shape, handler, commandHandlerType, false)
}

// OverrideQueryHandler replaces the base handler for shape and keeps its
// decorators.
func (r *Registry) OverrideQueryHandler(shape Shape, handler reflect.Type) error {
	return r.register(KindQuery, shape, handler, queryHandlerType, true)
}

// OverrideCommandHandler replaces the base handler for a command shape.
func (r *Registry) OverrideCommandHandler(shape Shape, handler reflect.Type) error {
	return r.register(KindCommand, shape, handler, commandHandlerType, true)
}

// DecorateQueryHandler adds a decorator for shape. The decorator added last
// runs first.
func (r *Registry) DecorateQueryHandler(shape Shape, decorator reflect.Type) error {
	return r.decorate(KindQuery, shape, decorator, queryDecoratorType)
}

// DecorateCommandHandler adds a decorator for a command shape.
func (r *Registry) DecorateCommandHandler(shape Shape, decorator reflect.Type) error {
	return r.decorate(KindCommand, shape, decorator, commandDecoratorType)
}

func (r *Registry) register(kind Kind, shape Shape, handler reflect.Type, iface reflect.Type, override bool) error {
	t, err := r.checkType(shape, handler, iface)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.table(kind)
	reg, ok := entries[shape]
	if !ok {
		reg = &registration{}
		entries[shape] = reg
	}

	switch {
	case override:
		reg.handler = t
		reg.overridden = true
		r.logger.Debug("handler overridden", "kind", kind, "shape", shape, "handler", t.String())
	case reg.handler == nil:
		reg.handler = t
		r.logger.Debug("handler registered", "kind", kind, "shape", shape, "handler", t.String())
	case reg.handler != t:
		r.logger.Debug("handler already registered, ignoring",
			"kind", kind, "shape", shape, "existing", reg.handler.String(), "ignored", t.String())
	}
	return nil
}

func (r *Registry) decorate(kind Kind, shape Shape, decorator reflect.Type, iface reflect.Type) error {
	t, err := r.checkType(shape, decorator, iface)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.table(kind)
	reg, ok := entries[shape]
	if !ok {
		reg = &registration{}
		entries[shape] = reg
	}
	reg.decorators = append(reg.decorators, t)

	r.logger.Debug("decorator added", "kind", kind, "shape", shape, "decorator", t.String(), "depth", len(reg.decorators))
	return nil
}

// checkType returns the type that implements iface: t itself or *t.
func (r *Registry) checkType(shape Shape, t reflect.Type, iface reflect.Type) (reflect.Type, error) {
	if r.sealed.Load() {
		return nil, ErrRegistrySealed
	}
	if shape == "" {
		return nil, fmt.Errorf("%w: empty shape", ErrInvalidHandler)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil type for %s", ErrInvalidHandler, shape)
	}
	if t.Implements(iface) {
		return t, nil
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface) {
		return reflect.PointerTo(t), nil
	}
	return nil, fmt.Errorf("%w: %s does not implement %s", ErrInvalidHandler, t, iface)
}

func (r *Registry) table(kind Kind) map[Shape]*registration {
	if kind == KindCommand {
		return r.commands
	}
	return r.queries
}

// HandlerTypes returns every registered handler and decorator type once,
// sorted by name. Containers use it to register construction functions.
func (r *Registry) HandlerTypes() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[reflect.Type]struct{})
	var types []reflect.Type
	add := func(t reflect.Type) {
		if t == nil {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}

	for _, entries := range []map[Shape]*registration{r.queries, r.commands} {
		for _, reg := range entries {
			add(reg.handler)
			for _, d := range reg.decorators {
				add(d)
			}
		}
	}

	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

// Registrations returns a snapshot of all registrations, queries first, each
// group sorted by shape.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Registration
	for _, kind := range []Kind{KindQuery, KindCommand} {
		entries := r.table(kind)
		shapes := make([]Shape, 0, len(entries))
		for shape := range entries {
			shapes = append(shapes, shape)
		}
		sort.Slice(shapes, func(i, j int) bool { return shapes[i] < shapes[j] })

		for _, shape := range shapes {
			reg := entries[shape]
			out = append(out, Registration{
				Kind:       kind,
				Shape:      shape,
				Handler:    reg.handler,
				Decorators: append([]reflect.Type(nil), reg.decorators...),
				Overridden: reg.overridden,
			})
		}
	}
	return out
}

// ResolveQuery constructs the pipeline for a query shape. Construction
// errors are returned unchanged.
func (r *Registry) ResolveQuery(shape Shape) (*QueryPipeline, error) {
	handlerType, decoratorTypes, construct, err := r.lookup(KindQuery, shape)
	if err != nil {
		return nil, err
	}

	base, err := construct(handlerType)
	if err != nil {
		return nil, err
	}
	handler, ok := base.(QueryHandler)
	if !ok {
		return nil, fmt.Errorf("%w: constructed %T for %s is not a QueryHandler", ErrInvalidHandler, base, shape)
	}

	decorators := make([]QueryDecorator, 0, len(decoratorTypes))
	for _, t := range decoratorTypes {
		v, err := construct(t)
		if err != nil {
			return nil, err
		}
		d, ok := v.(QueryDecorator)
		if !ok {
			return nil, fmt.Errorf("%w: constructed %T for %s is not a QueryDecorator", ErrInvalidHandler, v, shape)
		}
		decorators = append(decorators, d)
	}

	return newQueryPipeline(shape, handler, decorators), nil
}

// ResolveCommand constructs the pipeline for a command shape.
func (r *Registry) ResolveCommand(shape Shape) (*CommandPipeline, error) {
	handlerType, decoratorTypes, construct, err := r.lookup(KindCommand, shape)
	if err != nil {
		return nil, err
	}

	base, err := construct(handlerType)
	if err != nil {
		return nil, err
	}
	handler, ok := base.(CommandHandler)
	if !ok {
		return nil, fmt.Errorf("%w: constructed %T for %s is not a CommandHandler", ErrInvalidHandler, base, shape)
	}

	decorators := make([]CommandDecorator, 0, len(decoratorTypes))
	for _, t := range decoratorTypes {
		v, err := construct(t)
		if err != nil {
			return nil, err
		}
		d, ok := v.(CommandDecorator)
		if !ok {
			return nil, fmt.Errorf("%w: constructed %T for %s is not a CommandDecorator", ErrInvalidHandler, v, shape)
		}
		decorators = append(decorators, d)
	}

	return newCommandPipeline(shape, handler, decorators), nil
}

func (r *Registry) lookup(kind Kind, shape Shape) (reflect.Type, []reflect.Type, Constructor, error) {
	r.sealed.Store(true)

	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.table(kind)[shape]
	if !ok || reg.handler == nil {
		return nil, nil, nil, &HandlerNotFoundError{Kind: kind, Shape: shape}
	}

	construct := r.constructor
	if construct == nil {
		construct = DefaultConstructor
	}
	return reg.handler, reg.decorators, construct, nil
}
