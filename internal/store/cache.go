package store

import "time"

// marker tracks when a collection was last fetched from the server. Data
// is fresh while now - lastFetch < ttl; mutations reset lastFetch to force
// a future refetch.
type marker struct {
	lastFetch time.Time
	ttl       time.Duration
}

func (m *marker) stamp(now time.Time) {
	m.lastFetch = now
}

func (m *marker) fresh(now time.Time) bool {
	if m.lastFetch.IsZero() {
		return false
	}
	return now.Sub(m.lastFetch) < m.ttl
}

func (m *marker) invalidate() {
	m.lastFetch = time.Time{}
}
