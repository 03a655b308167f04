// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/allisson/sessions/internal/tokenstore"
)

// FakeStore is an in-memory tokenstore.Store for tests. It honors per-key TTL
// against an adjustable clock and is safe for concurrent use. Multiple registry
// instances pointed at one FakeStore model multiple server processes sharing a
// backend. Production code never uses it: an in-process store has no
// cross-instance coherence.
type FakeStore struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
	now     func() time.Time

	// Err, when set, is returned by every operation. Used to simulate an
	// unreachable backend.
	Err error
}

type fakeEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewFakeStore creates an empty FakeStore using the real clock.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		entries: make(map[string]fakeEntry),
		now:     time.Now,
	}
}

// SetClock replaces the store clock, letting tests step over TTL boundaries.
func (f *FakeStore) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Set stores a value under key with the given TTL.
func (f *FakeStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}

	f.entries[key] = fakeEntry{
		value:     append([]byte(nil), value...),
		expiresAt: f.now().Add(ttl),
	}
	return nil
}

// Get returns the value stored under key, or tokenstore.ErrKeyNotFound.
func (f *FakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	entry, ok := f.entries[key]
	if !ok || f.now().After(entry.expiresAt) {
		delete(f.entries, key)
		return nil, tokenstore.ErrKeyNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

// Delete removes key.
func (f *FakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}

	delete(f.entries, key)
	return nil
}

// SetMarker stores a value-less marker under key with the given TTL.
func (f *FakeStore) SetMarker(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return f.Set(ctx, key, []byte("1"), ttl)
}

// Exists reports whether key is present and unexpired.
func (f *FakeStore) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return false, f.Err
	}

	entry, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	if f.now().After(entry.expiresAt) {
		delete(f.entries, key)
		return false, nil
	}
	return true, nil
}

// ScanPrefix returns all unexpired keys starting with prefix.
func (f *FakeStore) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	var keys []string
	for key, entry := range f.entries {
		if strings.HasPrefix(key, prefix) && !f.now().After(entry.expiresAt) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Len returns the number of unexpired entries. Test assertion helper.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, entry := range f.entries {
		if !f.now().After(entry.expiresAt) {
			count++
		}
	}
	return count
}
