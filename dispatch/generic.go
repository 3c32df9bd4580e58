package dispatch

import "reflect"

// SetQueryHandler registers H as the base handler for queries of type Q.
func SetQueryHandler[Q any, H QueryHandler](r *Registry) error {
	return r.RegisterQueryHandler(ShapeFor[Q](), reflect.TypeFor[H]())
}

// DecorateQuery adds D as the outermost decorator for queries of type Q.
func DecorateQuery[Q any, D QueryDecorator](r *Registry) error {
	return r.DecorateQueryHandler(ShapeFor[Q](), reflect.TypeFor[D]())
}

// OverrideQuery replaces the base handler for queries of type Q with H.
func OverrideQuery[Q any, H QueryHandler](r *Registry) error {
	return r.OverrideQueryHandler(ShapeFor[Q](), reflect.TypeFor[H]())
}

// SetCommandHandler registers H as the base handler for commands of type C.
func SetCommandHandler[C any, H CommandHandler](r *Registry) error {
	return r.RegisterCommandHandler(ShapeFor[C](), reflect.TypeFor[H]())
}

// DecorateCommand adds D as the outermost decorator for commands of type C.
func DecorateCommand[C any, D CommandDecorator](r *Registry) error {
	return r.DecorateCommandHandler(ShapeFor[C](), reflect.TypeFor[D]())
}

// OverrideCommand replaces the base handler for commands of type C with H.
func OverrideCommand[C any, H CommandHandler](r *Registry) error {
	return r.OverrideCommandHandler(ShapeFor[C](), reflect.TypeFor[H]())
}
