package cache

import "errors"

var (
	// ErrUnknownResource is returned when a resource type is not registered.
	// This indicates a programming error, not a runtime condition to retry.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrNoData is returned when the upstream provider had no records for
	// the key. Callers should treat this as an empty result, not a fault.
	ErrNoData = errors.New("no data available")

	// ErrUpstreamUnavailable is returned when the provider fetch failed.
	// The engine does not retry; retry policy belongs to the caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrStoreWrite is returned when persisting a fetched record failed.
	ErrStoreWrite = errors.New("store write failed")
)
