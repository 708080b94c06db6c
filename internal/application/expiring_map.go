package application

import (
	"sync"
	"time"
)

type expiringEntry[V any] struct {
	value     V
	storedAt  time.Time
	expiresAt time.Time
}

// expiringMap keeps values for a fixed window. Expired entries are only dropped when read.
type expiringMap[K comparable, V any] struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[K]expiringEntry[V]
}

func newExpiringMap[K comparable, V any](window time.Duration) *expiringMap[K, V] {
	return &expiringMap[K, V]{
		window:  window,
		entries: map[K]expiringEntry[V]{},
	}
}

func (m *expiringMap[K, V]) get(key K, now time.Time) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !now.Before(entry.expiresAt) {
		delete(m.entries, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

// peek reports a fresh value without evicting stale ones.
func (m *expiringMap[K, V]) peek(key K, now time.Time) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || !now.Before(entry.expiresAt) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (m *expiringMap[K, V]) set(key K, value V, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = expiringEntry[V]{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(m.window),
	}
}

func (m *expiringMap[K, V]) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[K]expiringEntry[V]{}
}

func (m *expiringMap[K, V]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
