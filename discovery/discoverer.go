package discovery

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/goliatone/go-localization-provider/internal/logging"
	"golang.org/x/text/language"
)

// Options configures the built-in scanners.
type Options struct {
	// DefaultCulture receives code-declared text next to the invariant
	// culture.
	DefaultCulture language.Tag
	// CustomTags are extra struct tags that each emit "<key>-<Tag>".
	CustomTags []string
	// ForeignTypes are scanned in every pass after the requested types.
	ForeignTypes []reflect.Type
	Logger       *slog.Logger
}

func (o Options) builder() entryBuilder {
	return newEntryBuilder(o.DefaultCulture, o.CustomTags)
}

// Discoverer runs scanners over a set of types. It holds no per-pass state,
// so concurrent Discover calls are safe.
type Discoverer struct {
	scanners []Scanner
	foreign  []reflect.Type
	logger   *slog.Logger
}

// NewDiscoverer creates a discoverer with the model, resource, enum and
// foreign scanners, followed by extra.
func NewDiscoverer(opts Options, extra ...Scanner) *Discoverer {
	scanners := []Scanner{
		NewModelTypeScanner(opts),
		NewResourceTypeScanner(opts),
		NewEnumTypeScanner(opts),
		NewForeignResourceTypeScanner(opts),
	}
	scanners = append(scanners, extra...)

	return &Discoverer{
		scanners: scanners,
		foreign:  append([]reflect.Type(nil), opts.ForeignTypes...),
		logger:   logging.OrDiscard(opts.Logger).With("component", "discovery"),
	}
}

// Scanners returns the scanners in the order they are consulted.
func (d *Discoverer) Scanners() []Scanner {
	return append([]Scanner(nil), d.scanners...)
}

// Discover runs one pass over types and the configured foreign types with a
// fresh ScanState. The first scanner accepting a type handles it.
func (d *Discoverer) Discover(ctx context.Context, types ...reflect.Type) ([]ResourceEntry, error) {
	state := d.NewScanState()

	all := make([]reflect.Type, 0, len(types)+len(d.foreign))
	all = append(all, types...)
	all = append(all, d.foreign...)

	for _, t := range all {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.scan(t, state); err != nil {
			return nil, err
		}
	}

	entries := state.Entries()
	d.logger.InfoContext(ctx, "discovery pass complete", "types", state.VisitedCount(), "entries", len(entries))
	return entries, nil
}

// NewScanState returns a state whose member types are dispatched through
// this discoverer's scanners.
func (d *Discoverer) NewScanState() *ScanState {
	state := NewScanState()
	state.scannerFor = d.scannerFor
	return state
}

func (d *Discoverer) scan(t reflect.Type, state *ScanState) error {
	t = indirect(t)
	if t == nil || state.Visited(t) {
		return nil
	}

	s := d.scannerFor(t)
	if s == nil {
		d.logger.Debug("no scanner accepts type", "type", t.String())
		return nil
	}

	entries, err := s.Scan(t, state)
	if err != nil {
		return err
	}
	d.logger.Debug("type scanned", "type", t.String(), "scanner", s.Name(), "entries", len(entries))
	return state.Add(entries...)
}

func (d *Discoverer) scannerFor(t reflect.Type) Scanner {
	for _, s := range d.scanners {
		if s.ShouldScan(t) {
			return s
		}
	}
	return nil
}

// TypesOf returns the dynamic types of values, for Discover.
func TypesOf(values ...any) []reflect.Type {
	types := make([]reflect.Type, 0, len(values))
	for _, v := range values {
		if t := reflect.TypeOf(v); t != nil {
			types = append(types, t)
		}
	}
	return types
}
