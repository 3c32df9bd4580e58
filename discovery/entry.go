package discovery

import (
	"fmt"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
)

// ResourceEntry is a resource found in code. Translations are keyed by
// culture name, "" being the invariant culture.
type ResourceEntry struct {
	Key          string            `json:"key"`
	LegacyKey    string            `json:"legacy_key,omitempty"`
	Translations map[string]string `json:"translations"`
	Hidden       bool              `json:"hidden,omitempty"`
	FromCode     bool              `json:"from_code"`
	SourceType   string            `json:"source_type"`
}

// ErrDuplicateResourceKey is returned when two members produce the same key
// in one discovery pass.
var ErrDuplicateResourceKey = goerrors.New("duplicate resource key", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_RESOURCE_KEY")

// ScanState is owned by a single discovery pass. It is not safe for
// concurrent use.
type ScanState struct {
	visited map[reflect.Type]struct{}
	entries []ResourceEntry
	keys    map[string]string
	// scannerFor picks the scanner for member types. Nil disables nested
	// scanning.
	scannerFor func(reflect.Type) Scanner
}

func NewScanState() *ScanState {
	return &ScanState{
		visited: make(map[reflect.Type]struct{}),
		keys:    make(map[string]string),
	}
}

// Visit marks t as visited and reports whether this was the first visit.
func (s *ScanState) Visit(t reflect.Type) bool {
	t = indirect(t)
	if _, ok := s.visited[t]; ok {
		return false
	}
	s.visited[t] = struct{}{}
	return true
}

func (s *ScanState) Visited(t reflect.Type) bool {
	_, ok := s.visited[indirect(t)]
	return ok
}

// ScanNested scans a member type with the first scanner accepting it and
// returns the entries for the caller to place after the member's own
// entries. Visited types and types no scanner accepts yield nothing.
func (s *ScanState) ScanNested(t reflect.Type) ([]ResourceEntry, error) {
	t = indirect(t)
	if t == nil || s.scannerFor == nil || s.Visited(t) {
		return nil, nil
	}
	scanner := s.scannerFor(t)
	if scanner == nil {
		return nil, nil
	}
	return scanner.Scan(t, s)
}

// VisitedCount is the number of distinct types visited so far.
func (s *ScanState) VisitedCount() int {
	return len(s.visited)
}

// Add appends entries in order. A key already emitted in this pass fails
// with ErrDuplicateResourceKey and nothing after it is added.
func (s *ScanState) Add(entries ...ResourceEntry) error {
	for _, e := range entries {
		if source, ok := s.keys[e.Key]; ok {
			return fmt.Errorf("%w: %q from %s, already emitted by %s", ErrDuplicateResourceKey, e.Key, e.SourceType, source)
		}
		s.keys[e.Key] = e.SourceType
		s.entries = append(s.entries, e)
	}
	return nil
}

// Entries returns the entries in discovery order.
func (s *ScanState) Entries() []ResourceEntry {
	return append([]ResourceEntry(nil), s.entries...)
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
