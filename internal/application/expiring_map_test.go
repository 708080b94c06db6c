package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiringMap(t *testing.T) {
	t.Parallel()

	storedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset time.Duration
		wantOK bool
	}{
		{name: "fresh", offset: time.Minute, wantOK: true},
		{name: "just before expiry", offset: 5*time.Minute - time.Nanosecond, wantOK: true},
		{name: "at expiry", offset: 5 * time.Minute},
		{name: "after expiry", offset: 6 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newExpiringMap[string, int](5 * time.Minute)
			m.set("p1", 42, storedAt)

			got, ok := m.get("p1", storedAt.Add(tt.offset))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, 42, got)
				assert.Equal(t, 1, m.len())
			} else {
				assert.Zero(t, got)
				assert.Zero(t, m.len())
			}
		})
	}
}

func TestExpiringMap_PeekDoesNotEvict(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m := newExpiringMap[string, string](time.Minute)
	m.set("k", "v", now)

	_, ok := m.peek("k", now.Add(2*time.Minute))
	assert.False(t, ok)
	assert.Equal(t, 1, m.len())

	m.set("k", "v2", now.Add(2*time.Minute))
	got, ok := m.peek("k", now.Add(2*time.Minute+30*time.Second))
	assert.True(t, ok)
	assert.Equal(t, "v2", got)

	m.clear()
	assert.Zero(t, m.len())
}
