package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Resolver is the cache-aside orchestrator: look up, judge freshness, and on
// a miss fetch from upstream, persist, and return.
type Resolver struct {
	registry  *Registry
	store     RowStore
	evaluator *Evaluator
	logger    zerolog.Logger
}

// NewResolver wires the orchestrator. The store handle is injected; its
// lifecycle belongs to the caller.
func NewResolver(registry *Registry, store RowStore, evaluator *Evaluator, logger zerolog.Logger) *Resolver {
	return &Resolver{registry: registry, store: store, evaluator: evaluator, logger: logger}
}

// Resolve returns the cached rows for a key, fetching from upstream when the
// cache has nothing fresh. At most one fetch per call, no retries. Concurrent
// cold misses on the same key may each fetch and insert independently; the
// engine does not serialize them.
//
// Errors: ErrUnknownResource for unregistered resources, ErrNoData when the
// provider had nothing (no rows are written), ErrUpstreamUnavailable when the
// fetch failed, ErrStoreWrite when persisting failed. Records already
// inserted before a failed insert stay in the store and age out normally.
func (r *Resolver) Resolve(ctx context.Context, resource string, key Key, fetch FetchFunc) ([]Row, error) {
	policy, err := r.registry.PolicyFor(resource)
	if err != nil {
		return nil, err
	}
	if key.Kind() != policy.KeyKind {
		return nil, fmt.Errorf("resource %q expects %s keys, got %s", resource, policy.KeyKind, key.Kind())
	}

	rows, err := r.store.FindByKey(ctx, policy, key)
	if err != nil {
		return nil, err
	}

	verdict := r.evaluator.Evaluate(ctx, policy, rows, key)
	r.logger.Debug().
		Str("resource", resource).
		Stringer("key", key).
		Stringer("verdict", verdict).
		Int("rows", len(rows)).
		Msg("cache lookup")

	if verdict == VerdictFresh {
		cacheHits.WithLabelValues(resource).Inc()
		return rows, nil
	}
	cacheMisses.WithLabelValues(resource).Inc()

	upstreamFetches.WithLabelValues(resource).Inc()
	records, err := fetch(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, err
		}
		upstreamErrors.WithLabelValues(resource).Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, resource, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoData, resource, key)
	}

	fresh := make([]Row, 0, len(records))
	for _, fields := range records {
		row, err := r.store.Insert(ctx, policy, fields, key)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, row)
	}

	r.logger.Info().
		Str("resource", resource).
		Stringer("key", key).
		Int("rows", len(fresh)).
		Msg("cached fresh upstream data")
	return fresh, nil
}
