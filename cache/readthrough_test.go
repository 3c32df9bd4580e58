package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// mockManager records calls and can be told to fail.
type mockManager struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
	removes []string
	clears  int
}

func newMockManager() *mockManager {
	return &mockManager{data: make(map[string][]byte)}
}

func (m *mockManager) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockManager) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockManager) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes = append(m.removes, key)
	delete(m.data, key)
	return nil
}

func (m *mockManager) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.data = make(map[string][]byte)
	return nil
}

func (m *mockManager) Close() error { return nil }

type cachedItem struct {
	Key    string
	Values []string
}

func countingFetch(calls *int, item cachedItem) FetchFn[cachedItem] {
	return func(context.Context) (cachedItem, error) {
		*calls++
		return item, nil
	}
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	ctx := context.Background()
	manager := newMockManager()
	rt := NewReadThrough(manager, nil, nil)

	calls := 0
	want := cachedItem{Key: "Welcome", Values: []string{"Hello", "Hej"}}

	got, err := GetOrFetch(ctx, rt, "k", countingFetch(&calls, want))
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if got.Key != want.Key || len(got.Values) != 2 {
		t.Errorf("unexpected value %+v", got)
	}

	got, err = GetOrFetch(ctx, rt, "k", countingFetch(&calls, cachedItem{Key: "other"}))
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected fetch once, got %d", calls)
	}
	if got.Key != "Welcome" || got.Values[1] != "Hej" {
		t.Errorf("expected cached value, got %+v", got)
	}
}

func TestGetOrFetch_FetchErrorNotCached(t *testing.T) {
	ctx := context.Background()
	manager := newMockManager()
	rt := NewReadThrough(manager, nil, nil)

	boom := errors.New("repository down")
	_, err := GetOrFetch(ctx, rt, "k", func(context.Context) (cachedItem, error) {
		return cachedItem{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error unchanged, got %v", err)
	}
	if manager.sets != 0 {
		t.Errorf("failed fetch must not be stored, got %d sets", manager.sets)
	}
}

func TestGetOrFetch_BackendFailuresAreMisses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		getErr error
		setErr error
	}{
		{name: "read failure", getErr: errors.New("read timeout")},
		{name: "write failure", setErr: errors.New("write timeout")},
		{name: "both fail", getErr: errors.New("read"), setErr: errors.New("write")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := newMockManager()
			manager.getErr = tt.getErr
			manager.setErr = tt.setErr
			rt := NewReadThrough(manager, nil, nil)

			calls := 0
			for i := 0; i < 2; i++ {
				got, err := GetOrFetch(ctx, rt, "k", countingFetch(&calls, cachedItem{Key: "v"}))
				if err != nil {
					t.Fatalf("cache failure leaked to caller: %v", err)
				}
				if got.Key != "v" {
					t.Errorf("unexpected value %+v", got)
				}
			}
			if calls != 2 {
				t.Errorf("expected source consulted on every call, got %d", calls)
			}
		})
	}
}

func TestGetOrFetch_UndecodableEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	manager := newMockManager()
	manager.data["k"] = []byte{0xc1}
	rt := NewReadThrough(manager, nil, nil)

	calls := 0
	got, err := GetOrFetch(ctx, rt, "k", countingFetch(&calls, cachedItem{Key: "fresh"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "fresh" || calls != 1 {
		t.Errorf("expected refetch, got %+v after %d calls", got, calls)
	}
	if len(manager.removes) != 1 || manager.removes[0] != "k" {
		t.Errorf("expected corrupt entry removed, got %v", manager.removes)
	}
}

func TestGetOrFetch_WithSturdycManager(t *testing.T) {
	ctx := context.Background()
	manager, err := NewManager(DefaultConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer manager.Close()

	rt := NewReadThrough(manager, MsgpackCodec{}, nil)
	if rt.Manager() != manager {
		t.Fatal("Manager accessor returned a different manager")
	}

	calls := 0
	for i := 0; i < 3; i++ {
		if _, err := GetOrFetch(ctx, rt, "k", countingFetch(&calls, cachedItem{Key: "v"})); err != nil {
			t.Fatalf("GetOrFetch: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected one fetch, got %d", calls)
	}

	if err := manager.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := GetOrFetch(ctx, rt, "k", countingFetch(&calls, cachedItem{Key: "v"})); err != nil {
		t.Fatalf("GetOrFetch: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected refetch after Clear, got %d", calls)
	}
}
