package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Shared columns every resource table carries alongside its canonical fields.
const (
	colSearchQuery = "search_query"
	colLocationID  = "location_id"
	colCreatedAt   = "created_at"
)

// Store is the Postgres-backed RowStore. One table per resource type, with a
// surrogate id, the two nullable key columns, the resource's canonical
// columns, and an epoch-millisecond creation timestamp.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore creates a Store over an existing connection pool. The pool's
// lifecycle belongs to the caller.
func NewStore(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{pool: pool, logger: logger, now: time.Now}
}

// EnsureSchema creates the table for every registered policy if it does not
// already exist.
func (s *Store) EnsureSchema(ctx context.Context, registry *Registry) error {
	for _, p := range registry.Policies() {
		cols := []string{
			"id BIGSERIAL PRIMARY KEY",
			colSearchQuery + " TEXT",
			colLocationID + " BIGINT",
		}
		for _, c := range p.Columns {
			cols = append(cols, c.Name+" "+c.Type)
		}
		cols = append(cols, colCreatedAt+" BIGINT NOT NULL")

		q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", p.Table, strings.Join(cols, ", "))
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("create table %s: %w", p.Table, err)
		}
	}
	return nil
}

// FindByKey implements RowStore.
func (s *Store) FindByKey(ctx context.Context, policy Policy, key Key) ([]Row, error) {
	keyCol, err := keyColumn(policy, key)
	if err != nil {
		return nil, err
	}

	names := policy.columnNames()
	q := fmt.Sprintf(
		"SELECT id, %s, %s, %s, %s FROM %s WHERE %s = $1 ORDER BY id",
		colSearchQuery, colLocationID, strings.Join(names, ", "), colCreatedAt,
		policy.Table, keyCol,
	)

	rows, err := s.pool.Query(ctx, q, key.value())
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", policy.Table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r := Row{Fields: make(Fields, len(names))}
		vals := make([]any, len(names))
		var createdAt int64

		dest := make([]any, 0, len(names)+4)
		dest = append(dest, &r.ID, &r.SearchQuery, &r.LocationID)
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		dest = append(dest, &createdAt)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", policy.Table, err)
		}
		for i, name := range names {
			r.Fields[name] = vals[i]
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select from %s: %w", policy.Table, err)
	}
	return out, nil
}

// Insert implements RowStore. The write runs on a context detached from the
// caller's cancellation so an issued insert completes rather than leaving a
// half-written row behind an abandoned request.
func (s *Store) Insert(ctx context.Context, policy Policy, fields Fields, key Key) (Row, error) {
	keyCol, err := keyColumn(policy, key)
	if err != nil {
		return Row{}, err
	}

	createdAt := s.now()
	cols := []string{keyCol}
	args := []any{key.value()}
	for _, name := range policy.columnNames() {
		cols = append(cols, name)
		args = append(args, fields[name])
	}
	cols = append(cols, colCreatedAt)
	args = append(args, createdAt.UnixMilli())

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		policy.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	var id int64
	if err := s.pool.QueryRow(context.WithoutCancel(ctx), q, args...).Scan(&id); err != nil {
		return Row{}, fmt.Errorf("%w: insert into %s: %v", ErrStoreWrite, policy.Table, err)
	}

	row := Row{ID: id, Fields: fields, CreatedAt: createdAt}
	if key.Kind() == KeyBySearch {
		query := key.Search()
		row.SearchQuery = &query
	} else {
		locationID := key.LocationID()
		row.LocationID = &locationID
	}
	return row, nil
}

// DeleteByKey implements RowStore.
func (s *Store) DeleteByKey(ctx context.Context, policy Policy, key Key) error {
	keyCol, err := keyColumn(policy, key)
	if err != nil {
		return err
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", policy.Table, keyCol)
	tag, err := s.pool.Exec(ctx, q, key.value())
	if err != nil {
		return fmt.Errorf("delete from %s: %w", policy.Table, err)
	}
	s.logger.Debug().
		Str("resource", policy.Resource).
		Stringer("key", key).
		Int64("rows", tag.RowsAffected()).
		Msg("deleted cached rows")
	return nil
}

// keyColumn maps the key onto its column, rejecting keys whose tag does not
// match the policy's keying strategy.
func keyColumn(policy Policy, key Key) (string, error) {
	if key.Kind() != policy.KeyKind {
		return "", fmt.Errorf("resource %q expects %s keys, got %s", policy.Resource, policy.KeyKind, key.Kind())
	}
	if key.Kind() == KeyBySearch {
		return colSearchQuery, nil
	}
	return colLocationID, nil
}
