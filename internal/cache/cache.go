// Package cache provides the key/value cache used to reuse generated
// coaching for repeated answers.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Cache for single-instance use and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !m.now().Before(e.expires)) {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value under key. A zero expiration keeps it until deleted.
func (m *Memory) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expires = m.now().Add(expiration)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
