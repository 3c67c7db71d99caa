package redisx

import "time"

const (
	// Per-table cache generation: ver:{table} -> int. Bumped on every change.
	KeyTableVersion = "ver:%s"

	// Cached list read: list:{table}:v{version}:{query}
	KeyListCache = "list:%s:v%d:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLListCache = 2 * time.Minute
	TTLDedup     = 48 * time.Hour
)
