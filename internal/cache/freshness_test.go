package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testWeatherPolicy() Policy {
	return Policy{
		Resource: ResourceWeather,
		Table:    "weathers",
		TTL:      15 * time.Second,
		KeyKind:  KeyByLocation,
		Columns:  []Column{{Name: "forecast", Type: "TEXT"}, {Name: "time", Type: "TEXT"}},
	}
}

func rowCreatedAt(t time.Time) Row {
	return Row{ID: 1, Fields: Fields{"forecast": "Clear"}, CreatedAt: t}
}

func TestEvaluateMiss(t *testing.T) {
	evaluator := NewEvaluator(newMemStore(), zerolog.Nop())

	verdict := evaluator.Evaluate(context.Background(), testWeatherPolicy(), nil, LocationKey(1))
	if verdict != VerdictMiss {
		t.Errorf("Evaluate(no rows) = %s, want miss", verdict)
	}
}

func TestEvaluateFreshness(t *testing.T) {
	base := time.UnixMilli(0)

	tests := []struct {
		name    string
		age     time.Duration
		verdict Verdict
	}{
		{"well within ttl", 10 * time.Second, VerdictFresh},
		{"exactly at ttl", 15 * time.Second, VerdictFresh},
		{"just past ttl", 15*time.Second + time.Millisecond, VerdictEvicted},
		{"long stale", time.Hour, VerdictEvicted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			evaluator := NewEvaluator(store, zerolog.Nop())
			evaluator.now = func() time.Time { return base.Add(tt.age) }

			verdict := evaluator.Evaluate(context.Background(), testWeatherPolicy(), []Row{rowCreatedAt(base)}, LocationKey(1))
			if verdict != tt.verdict {
				t.Errorf("Evaluate(age=%v) = %s, want %s", tt.age, verdict, tt.verdict)
			}

			wantDeletes := 0
			if tt.verdict == VerdictEvicted {
				wantDeletes = 1
			}
			if len(store.deleted) != wantDeletes {
				t.Errorf("deletes = %d, want %d", len(store.deleted), wantDeletes)
			}
		})
	}
}

func TestEvaluateGroupUsesFirstRowTimestamp(t *testing.T) {
	base := time.UnixMilli(0)
	store := newMemStore()
	evaluator := NewEvaluator(store, zerolog.Nop())
	evaluator.now = func() time.Time { return base.Add(10 * time.Second) }

	// Second row is long stale but the first row's age judges the set.
	rows := []Row{rowCreatedAt(base), rowCreatedAt(base.Add(-time.Hour))}

	verdict := evaluator.Evaluate(context.Background(), testWeatherPolicy(), rows, LocationKey(1))
	if verdict != VerdictFresh {
		t.Errorf("Evaluate = %s, want fresh", verdict)
	}
	if len(store.deleted) != 0 {
		t.Errorf("fresh verdict must not delete, got %d deletes", len(store.deleted))
	}
}

func TestEvaluateSwallowsDeleteFailure(t *testing.T) {
	base := time.UnixMilli(0)
	store := newMemStore()
	store.deleteErr = errors.New("connection reset")
	evaluator := NewEvaluator(store, zerolog.Nop())
	evaluator.now = func() time.Time { return base.Add(time.Hour) }

	verdict := evaluator.Evaluate(context.Background(), testWeatherPolicy(), []Row{rowCreatedAt(base)}, LocationKey(1))
	if verdict != VerdictEvicted {
		t.Errorf("Evaluate = %s, want evicted even when the delete fails", verdict)
	}
}
