package cache

import "time"

// Fields is one normalized upstream record: canonical field name to value.
// The set of valid names for a resource is fixed by its Policy, never by
// caller input.
type Fields map[string]any

// Row is a persisted cache record. Exactly one of SearchQuery/LocationID is
// set, matching the resource's KeyKind. Rows are never updated in place;
// staleness deletes them.
type Row struct {
	ID          int64
	SearchQuery *string
	LocationID  *int64
	Fields      Fields
	CreatedAt   time.Time
}
