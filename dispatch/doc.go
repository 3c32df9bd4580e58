// Package dispatch maps query and command types to handler pipelines.
//
// A request's Shape is derived from its Go type (package path and type name)
// unless the type implements Shaper. Handlers and decorators are registered
// as types and built on every resolve through a Constructor, so the registry
// does not own object lifetimes:
//
//	reg := dispatch.NewRegistry(logger)
//	_ = dispatch.SetQueryHandler[GetAllResources, *GetAllResourcesHandler](reg)
//	_ = dispatch.DecorateQuery[GetAllResources, *CachedGetAllResourcesHandler](reg)
//	_ = reg.SetConstructor(container.Construct)
//
//	queries := dispatch.NewQueryDispatcher(reg, logger)
//	list, err := dispatch.ExecuteQuery[[]LocalizationResource](ctx, queries, GetAllResources{})
//
// Decorators stack: the one registered last runs first, and any of them may
// return without calling next. Registration is first-wins per shape;
// Override* replaces the base handler and keeps decorators. The first
// resolve seals the registry.
package dispatch
