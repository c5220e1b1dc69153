// Package group implements the lexical group repository using PostgreSQL.
// A fingerprint identifies at most one group; concurrent creators converge on
// the first committed row.
package group

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type groupRow struct {
	ID          uuid.UUID `db:"id"`
	Fingerprint string    `db:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"`
}

// Repo provides lexical group persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new lexical group repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByFingerprint returns the group with the fingerprint.
// Returns domain.ErrNotFound if there is none.
func (r *Repo) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.LexicalGroup, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row groupRow
	err := pgxscan.Get(ctx, q, &row,
		`SELECT id, fingerprint, created_at FROM lexical_groups WHERE fingerprint = $1`, fingerprint)
	if err != nil {
		return nil, postgres.MapError(err, "lexical_group", fingerprint)
	}

	g := domain.LexicalGroup(row)
	return &g, nil
}

// Ensure inserts candidate unless its fingerprint is taken, then re-reads the
// canonical row. The returned group may carry another id than candidate.
func (r *Repo) Ensure(ctx context.Context, candidate domain.LexicalGroup) (*domain.LexicalGroup, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO lexical_groups (id, fingerprint, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (fingerprint) DO NOTHING`,
		candidate.ID, candidate.Fingerprint, candidate.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "lexical_group", candidate.Fingerprint)
	}

	return r.GetByFingerprint(ctx, candidate.Fingerprint)
}

// LinkEntries attaches entries to the group, ranked by position. Existing
// links are left untouched.
func (r *Repo) LinkEntries(ctx context.Context, groupID uuid.UUID, entryIDs []uuid.UUID) error {
	if len(entryIDs) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := psql.Insert("lexical_group_entries").Columns("group_id", "entry_id", "rank")
	for i, id := range entryIDs {
		b = b.Values(groupID, id, i)
	}
	sql, args, err := b.Suffix("ON CONFLICT (group_id, entry_id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build link entries: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "lexical_group", groupID)
	}
	return nil
}

// ListEntryIDs returns the group's entries in rank order.
func (r *Repo) ListEntryIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, q, &ids,
		`SELECT entry_id FROM lexical_group_entries WHERE group_id = $1 ORDER BY rank`, groupID); err != nil {
		return nil, fmt.Errorf("list group entries: %w", err)
	}
	return ids, nil
}
