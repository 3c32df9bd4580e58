package cacheinfra

import (
	"bytes"
	"context"

	"github.com/viccon/sturdyc"
)

// SturdycManager is the default in-memory cache backend.
type SturdycManager struct {
	client *sturdyc.Client[[]byte]
}

// NewSturdycManager validates cfg and creates a sturdyc client from it.
func NewSturdycManager(cfg Config) (*SturdycManager, error) {
	cfg.Backend = BackendMemory
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycManager{client: client}, nil
}

// Get returns a copy of the stored blob.
func (m *SturdycManager) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

// Set stores a copy of value so callers can reuse their buffer.
func (m *SturdycManager) Set(_ context.Context, key string, value []byte) error {
	m.client.Set(key, bytes.Clone(value))
	return nil
}

func (m *SturdycManager) Remove(_ context.Context, key string) error {
	m.client.Delete(key)
	return nil
}

// Clear drops every entry. A Set racing with Clear may land right after it.
func (m *SturdycManager) Clear(_ context.Context) error {
	for _, key := range m.client.ScanKeys() {
		m.client.Delete(key)
	}
	return nil
}

// Size returns the number of entries currently held.
func (m *SturdycManager) Size() int {
	return m.client.Size()
}

func (m *SturdycManager) Close() error {
	return nil
}
