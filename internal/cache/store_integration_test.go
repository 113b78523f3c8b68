//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupStore starts a throwaway Postgres container and returns a Store with
// the full schema created.
func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("city_explorer"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewStore(pool, zerolog.Nop())
	require.NoError(t, store.EnsureSchema(ctx, DefaultRegistry()))
	// Running it again must be a no-op.
	require.NoError(t, store.EnsureSchema(ctx, DefaultRegistry()))
	return store
}

func TestStoreInsertAndFindByLocationKey(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	policy, err := DefaultRegistry().PolicyFor(ResourceWeather)
	require.NoError(t, err)

	records := []Fields{
		{"forecast": "Clear throughout the day", "time": "Mon Jan 01 2024"},
		{"forecast": "Rain in the evening", "time": "Tue Jan 02 2024"},
	}
	for _, fields := range records {
		_, err := store.Insert(ctx, policy, fields, LocationKey(42))
		require.NoError(t, err)
	}

	rows, err := store.FindByKey(ctx, policy, LocationKey(42))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Less(t, rows[0].ID, rows[1].ID, "rows must come back ordered by id")
	for i, row := range rows {
		require.NotNil(t, row.LocationID)
		assert.Equal(t, int64(42), *row.LocationID)
		assert.Nil(t, row.SearchQuery)
		assert.Equal(t, records[i]["forecast"], row.Fields["forecast"])
		assert.Equal(t, records[i]["time"], row.Fields["time"])
		assert.False(t, row.CreatedAt.IsZero())
	}

	other, err := store.FindByKey(ctx, policy, LocationKey(43))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStoreInsertAndFindBySearchKey(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	policy, err := DefaultRegistry().PolicyFor(ResourceLocations)
	require.NoError(t, err)

	_, err = store.Insert(ctx, policy, Fields{
		"formatted_query": "Seattle, WA, USA",
		"latitude":        47.6062,
		"longitude":       -122.3321,
	}, SearchKey("Seattle"))
	require.NoError(t, err)

	rows, err := store.FindByKey(ctx, policy, SearchKey("Seattle"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].SearchQuery)
	assert.Equal(t, "Seattle", *rows[0].SearchQuery)
	assert.Nil(t, rows[0].LocationID)
	assert.Equal(t, "Seattle, WA, USA", rows[0].Fields["formatted_query"])
	assert.InDelta(t, 47.6062, rows[0].Fields["latitude"], 0.0001)
}

func TestStoreNumericColumnsRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	policy, err := DefaultRegistry().PolicyFor(ResourceMovies)
	require.NoError(t, err)

	_, err = store.Insert(ctx, policy, Fields{
		"title":         "Sleepless in Seattle",
		"overview":      "A widower's son calls a radio show.",
		"average_votes": 6.8,
		"total_votes":   int64(2830),
		"image_url":     "https://image.tmdb.org/t/p/w500/afkYP1KUps.jpg",
		"popularity":    13.94,
		"released_on":   "1993-06-24",
	}, LocationKey(42))
	require.NoError(t, err)

	rows, err := store.FindByKey(ctx, policy, LocationKey(42))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 6.8, rows[0].Fields["average_votes"], 0.0001)
	assert.Equal(t, int64(2830), rows[0].Fields["total_votes"])
}

func TestStoreDeleteByKey(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	policy, err := DefaultRegistry().PolicyFor(ResourceWeather)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.Insert(ctx, policy, Fields{"forecast": "Clear", "time": "Mon"}, LocationKey(42))
		require.NoError(t, err)
	}
	_, err = store.Insert(ctx, policy, Fields{"forecast": "Rain", "time": "Tue"}, LocationKey(99))
	require.NoError(t, err)

	require.NoError(t, store.DeleteByKey(ctx, policy, LocationKey(42)))

	rows, err := store.FindByKey(ctx, policy, LocationKey(42))
	require.NoError(t, err)
	assert.Empty(t, rows, "all rows for the key are evicted together")

	unrelated, err := store.FindByKey(ctx, policy, LocationKey(99))
	require.NoError(t, err)
	assert.Len(t, unrelated, 1, "unrelated keys must be untouched")

	// Deleting an absent key is a no-op.
	require.NoError(t, store.DeleteByKey(ctx, policy, LocationKey(42)))
}

func TestStoreRejectsMismatchedKeyKind(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	policy, err := DefaultRegistry().PolicyFor(ResourceWeather)
	require.NoError(t, err)

	_, err = store.FindByKey(ctx, policy, SearchKey("Seattle"))
	assert.Error(t, err)
}
