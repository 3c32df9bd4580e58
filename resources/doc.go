// Package resources defines localization resources, the queries and
// commands that operate on them, their base handlers and the Provider used
// by applications to look up translations.
//
// Handlers are plain structs with exported dependencies so a container can
// build them through a dispatch.Constructor. GetTranslation and
// AvailableLanguages fetch data by dispatching GetAllResources, so whatever
// decorators wrap that query (usually the cache) apply to them as well.
package resources
