// Package lookupkey stores normalized lookup strings and the unit each last
// resolved to.
package lookupkey

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides lookup key persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new lookup key repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the lookup key. Returns domain.ErrNotFound if it was never seen.
func (r *Repo) Get(ctx context.Context, key string) (*domain.LookupKey, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select("key", "unit_id", "created_at", "last_seen_at", "hit_count").
		From("lookup_keys").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lookup_key: %w", err)
	}

	var lk domain.LookupKey
	if err := pgxscan.Get(ctx, q, &lk, sql, args...); err != nil {
		return nil, postgres.MapError(err, "lookup_key", key)
	}
	return &lk, nil
}

// Touch records a hit on key. A non-nil unitID replaces the stored unit, a
// nil one keeps whatever was there.
func (r *Repo) Touch(ctx context.Context, key string, unitID *uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Insert("lookup_keys").
		Columns("key", "unit_id").
		Values(key, unitID).
		Suffix(`ON CONFLICT (key) DO UPDATE SET
			unit_id = COALESCE(EXCLUDED.unit_id, lookup_keys.unit_id),
			last_seen_at = now(),
			hit_count = lookup_keys.hit_count + 1`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch lookup_key: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "lookup_key", key)
	}
	return nil
}
