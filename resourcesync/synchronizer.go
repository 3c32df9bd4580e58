// Package resourcesync writes resources discovered in code to a repository.
package resourcesync

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/goliatone/go-localization-provider/discovery"
	"github.com/goliatone/go-localization-provider/dispatch"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/resources"
)

// DefaultAuthor is recorded on resources created from code.
const DefaultAuthor = "type-scanner"

// Report counts what one Sync call did to the repository.
type Report struct {
	Discovered int
	Created    int
	Updated    int
	Migrated   int
	Unchanged  int
}

// Changed reports whether the repository was written to.
func (r Report) Changed() bool {
	return r.Created+r.Updated+r.Migrated > 0
}

// Synchronizer discovers resources and stores them.
type Synchronizer struct {
	discoverer *discovery.Discoverer
	repo       resources.Repository
	commands   dispatch.CommandExecutor
	logger     *slog.Logger
	author     string
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithAuthor sets the author recorded on created resources.
func WithAuthor(author string) Option {
	return func(s *Synchronizer) {
		if author != "" {
			s.author = author
		}
	}
}

// New creates a synchronizer. commands may be nil, in which case no cache
// invalidation is requested after a sync.
func New(discoverer *discovery.Discoverer, repo resources.Repository, commands dispatch.CommandExecutor, logger *slog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		discoverer: discoverer,
		repo:       repo,
		commands:   commands,
		logger:     logging.OrDiscard(logger).With("component", "sync"),
		author:     DefaultAuthor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync discovers types and reconciles the repository with the result.
//
// A stored resource is refreshed from code unless it was modified by hand,
// in which case only cultures it lacks are added. A resource missing under
// its key but stored under the entry's legacy key is renamed first. Anything
// else is created. The resource cache is cleared at the end.
func (s *Synchronizer) Sync(ctx context.Context, types ...reflect.Type) (Report, error) {
	var report Report

	entries, err := s.discoverer.Discover(ctx, types...)
	if err != nil {
		return report, err
	}
	report.Discovered = len(entries)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.syncEntry(ctx, entry, &report); err != nil {
			return report, fmt.Errorf("sync %s: %w", entry.Key, err)
		}
	}

	if s.commands != nil {
		if err := s.commands.Execute(ctx, resources.ClearCache{}); err != nil {
			return report, err
		}
	}

	s.logger.InfoContext(ctx, "resources synchronized",
		"discovered", report.Discovered,
		"created", report.Created,
		"updated", report.Updated,
		"migrated", report.Migrated,
		"unchanged", report.Unchanged,
	)
	return report, nil
}

func (s *Synchronizer) syncEntry(ctx context.Context, entry discovery.ResourceEntry, report *Report) error {
	existing, err := s.repo.GetByKey(ctx, entry.Key)
	if err == nil {
		if !merge(existing, entry) {
			report.Unchanged++
			return nil
		}
		report.Updated++
		return s.repo.Save(ctx, existing)
	}
	if !resources.IsNotFound(err) {
		return err
	}

	if entry.LegacyKey != "" {
		migrated, err := s.migrate(ctx, entry)
		if err != nil {
			return err
		}
		if migrated {
			report.Migrated++
			return nil
		}
	}

	res := &resources.LocalizationResource{
		ResourceKey: entry.Key,
		Author:      s.author,
		FromCode:    true,
		IsHidden:    entry.Hidden,
	}
	for _, lang := range sortedCultures(entry.Translations) {
		setTranslation(res, lang, entry.Translations[lang])
	}
	report.Created++
	return s.repo.Save(ctx, res)
}

func (s *Synchronizer) migrate(ctx context.Context, entry discovery.ResourceEntry) (bool, error) {
	legacy, err := s.repo.GetByKey(ctx, entry.LegacyKey)
	if resources.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.repo.RenameKey(ctx, entry.LegacyKey, entry.Key); err != nil {
		return false, err
	}
	s.logger.DebugContext(ctx, "legacy key migrated", "from", entry.LegacyKey, "to", entry.Key)

	legacy.ResourceKey = entry.Key
	if merge(legacy, entry) {
		if err := s.repo.Save(ctx, legacy); err != nil {
			return false, err
		}
	}
	return true, nil
}

// merge applies entry to res and reports whether res changed.
func merge(res *resources.LocalizationResource, entry discovery.ResourceEntry) bool {
	changed := false
	if !res.FromCode {
		res.FromCode = true
		changed = true
	}
	if res.IsHidden != entry.Hidden {
		res.IsHidden = entry.Hidden
		changed = true
	}

	for _, lang := range sortedCultures(entry.Translations) {
		value := entry.Translations[lang]
		current, ok := translation(res, lang)
		if ok && (res.IsModified || current == value) {
			continue
		}
		setTranslation(res, lang, value)
		changed = true
	}
	return changed
}

func translation(res *resources.LocalizationResource, lang string) (string, bool) {
	for _, t := range res.Translations {
		if t.Language == lang {
			return t.Value, true
		}
	}
	return "", false
}

func setTranslation(res *resources.LocalizationResource, lang, value string) {
	for i := range res.Translations {
		if res.Translations[i].Language == lang {
			res.Translations[i].Value = value
			return
		}
	}
	res.Translations = append(res.Translations, resources.Translation{Language: lang, Value: value})
}

func sortedCultures(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for lang := range m {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
