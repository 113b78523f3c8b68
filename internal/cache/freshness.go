package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Verdict is the outcome of a freshness check.
type Verdict int

const (
	// VerdictMiss means no rows exist for the key.
	VerdictMiss Verdict = iota

	// VerdictFresh means the cached rows are within their TTL.
	VerdictFresh

	// VerdictEvicted means the rows were stale and have been deleted.
	VerdictEvicted
)

func (v Verdict) String() string {
	switch v {
	case VerdictMiss:
		return "miss"
	case VerdictFresh:
		return "fresh"
	case VerdictEvicted:
		return "evicted"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// Evaluator judges cached rows against their resource's TTL and lazily evicts
// stale ones. There is no background sweep; staleness is only checked on
// access.
type Evaluator struct {
	store  RowStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewEvaluator creates an Evaluator that deletes stale rows through store.
func NewEvaluator(store RowStore, logger zerolog.Logger) *Evaluator {
	return &Evaluator{store: store, logger: logger, now: time.Now}
}

// Evaluate classifies the rows for a key. Rows sharing a key age as one unit:
// the first row's timestamp judges the whole set, and eviction removes them
// all together. A row aged exactly TTL is still fresh.
//
// Eviction failures are logged and swallowed; the stale rows survive until
// the next lookup re-evaluates them.
func (e *Evaluator) Evaluate(ctx context.Context, policy Policy, rows []Row, key Key) Verdict {
	if len(rows) == 0 {
		return VerdictMiss
	}

	age := e.now().Sub(rows[0].CreatedAt)
	if age <= policy.TTL {
		return VerdictFresh
	}

	if err := e.store.DeleteByKey(ctx, policy, key); err != nil {
		e.logger.Warn().
			Err(err).
			Str("resource", policy.Resource).
			Stringer("key", key).
			Msg("failed to evict stale rows")
	}
	cacheEvictions.WithLabelValues(policy.Resource).Inc()
	return VerdictEvicted
}
