// Package cache implements the cache-aside engine that sits between the
// request handlers and the upstream data providers: a registry of per-resource
// TTL policies, a generic row store over Postgres, a freshness evaluator with
// lazy eviction, and the resolver that ties them together.
package cache

import (
	"context"
)

// RowStore defines the persistence operations the engine needs. The Postgres
// Store is the production implementation; tests substitute an in-memory fake.
type RowStore interface {
	// FindByKey returns all rows for the key, ordered by id.
	// An empty slice means no match, not an error.
	FindByKey(ctx context.Context, policy Policy, key Key) ([]Row, error)

	// Insert persists one normalized record and returns the stored row
	// with its store-assigned id. Failures wrap ErrStoreWrite.
	Insert(ctx context.Context, policy Policy, fields Fields, key Key) (Row, error)

	// DeleteByKey removes all rows for the key. Deleting an absent key
	// is a no-op.
	DeleteByKey(ctx context.Context, policy Policy, key Key) error
}

// FetchFunc fetches and normalizes upstream data for a key. Implementations
// return ErrNoData when the provider has nothing for the key; any other error
// is treated as an upstream failure.
type FetchFunc func(ctx context.Context, key Key) ([]Fields, error)
