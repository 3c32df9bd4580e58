package resources

import (
	"context"
	"sort"

	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/dispatch"
	"golang.org/x/text/language"
)

// GetAllResourcesHandler loads resources from the repository. It is the base
// handler the cache decorator wraps.
type GetAllResourcesHandler struct {
	Repository Repository
}

func NewGetAllResourcesHandler(repo Repository) *GetAllResourcesHandler {
	return &GetAllResourcesHandler{Repository: repo}
}

func (h *GetAllResourcesHandler) Execute(ctx context.Context, query any) (any, error) {
	if _, err := dispatch.RequestAs[GetAllResources](query); err != nil {
		return nil, err
	}
	return h.Repository.GetAll(ctx)
}

// GetTranslationHandler resolves a key through the culture fallback chain.
// Resources are fetched with GetAllResources through Queries so the cached
// pipeline is used.
type GetTranslationHandler struct {
	Queries  dispatch.QueryExecutor
	Cultures *culture.Collection
}

func NewGetTranslationHandler(queries dispatch.QueryExecutor, cultures *culture.Collection) *GetTranslationHandler {
	return &GetTranslationHandler{Queries: queries, Cultures: cultures}
}

func (h *GetTranslationHandler) Execute(ctx context.Context, query any) (any, error) {
	q, err := dispatch.RequestAs[GetTranslation](query)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := dispatch.ExecuteQuery[[]LocalizationResource](ctx, h.Queries, GetAllResources{})
	if err != nil {
		return nil, err
	}

	resource, ok := findByKey(all, q.Key)
	if !ok {
		return TranslationResult{Culture: q.Culture}, nil
	}

	cultures := h.Cultures
	if cultures == nil {
		cultures = culture.NewCollection(nil)
	}

	value, from, found := cultures.ChainFor(q.Culture).Lookup(q.Culture, resource.TranslationFor)
	return TranslationResult{Value: value, Culture: from, Found: found}, nil
}

func findByKey(all []LocalizationResource, key string) (LocalizationResource, bool) {
	for _, r := range all {
		if r.ResourceKey == key {
			return r, true
		}
	}
	return LocalizationResource{}, false
}

// DetermineDefaultCultureHandler answers DetermineDefaultCulture from
// configuration.
type DetermineDefaultCultureHandler struct {
	Culture language.Tag
}

func NewDetermineDefaultCultureHandler(tag language.Tag) *DetermineDefaultCultureHandler {
	return &DetermineDefaultCultureHandler{Culture: tag}
}

func (h *DetermineDefaultCultureHandler) Execute(_ context.Context, query any) (any, error) {
	if _, err := dispatch.RequestAs[DetermineDefaultCulture](query); err != nil {
		return nil, err
	}
	return h.Culture, nil
}

// AvailableLanguagesHandler collects the cultures used by stored
// translations, sorted by name.
type AvailableLanguagesHandler struct {
	Queries dispatch.QueryExecutor
}

func NewAvailableLanguagesHandler(queries dispatch.QueryExecutor) *AvailableLanguagesHandler {
	return &AvailableLanguagesHandler{Queries: queries}
}

func (h *AvailableLanguagesHandler) Execute(ctx context.Context, query any) (any, error) {
	q, err := dispatch.RequestAs[AvailableLanguages](query)
	if err != nil {
		return nil, err
	}

	all, err := dispatch.ExecuteQuery[[]LocalizationResource](ctx, h.Queries, GetAllResources{})
	if err != nil {
		return nil, err
	}

	seen := make(map[language.Tag]struct{})
	var tags []language.Tag
	for _, r := range all {
		for _, tag := range r.Languages() {
			if culture.IsInvariant(tag) && !q.IncludeInvariant {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	sort.Slice(tags, func(i, j int) bool { return culture.Name(tags[i]) < culture.Name(tags[j]) })
	return tags, nil
}
