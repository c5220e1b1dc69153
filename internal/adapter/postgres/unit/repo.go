// Package unit implements the learning unit repository using PostgreSQL.
package unit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var unitColumns = []string{
	"u.id", "u.label", "u.stem_id", "u.group_id", "u.representative_entry_id",
	"u.match_method", "u.created_from_lookup_key", "u.created_at",
}

type unitRow struct {
	ID                    uuid.UUID `db:"id"`
	Label                 string    `db:"label"`
	StemID                uuid.UUID `db:"stem_id"`
	GroupID               uuid.UUID `db:"group_id"`
	RepresentativeEntryID uuid.UUID `db:"representative_entry_id"`
	MatchMethod           string    `db:"match_method"`
	CreatedFromLookupKey  string    `db:"created_from_lookup_key"`
	CreatedAt             time.Time `db:"created_at"`
}

type summaryRow struct {
	unitRow
	Stem        string  `db:"stem"`
	StemNorm    string  `db:"stem_norm"`
	Fingerprint string  `db:"fingerprint"`
	Headword    *string `db:"headword"`
}

// Repo provides learning unit persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new learning unit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// summaryQuery selects units joined with their stem, group and the headword
// of the representative entry.
func summaryQuery() squirrel.SelectBuilder {
	cols := append(append([]string{}, unitColumns...),
		"s.text AS stem", "s.norm AS stem_norm", "g.fingerprint", "h.text AS headword")
	return psql.Select(cols...).
		From("learning_units u").
		Join("entry_stems s ON s.id = u.stem_id").
		Join("lexical_groups g ON g.id = u.group_id").
		LeftJoin("entry_headwords h ON h.entry_id = u.representative_entry_id")
}

// Insert stores u unless its group already has a unit with the same label,
// then returns the canonical unit. created reports whether u was stored.
func (r *Repo) Insert(ctx context.Context, u domain.LearningUnit) (*domain.LearningUnit, bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Insert("learning_units").
		Columns("id", "label", "stem_id", "group_id", "representative_entry_id",
			"match_method", "created_from_lookup_key", "created_at").
		Values(u.ID, u.Label, u.StemID, u.GroupID, u.RepresentativeEntryID,
			string(u.MatchMethod), u.CreatedFromLookupKey, u.CreatedAt).
		Suffix("ON CONFLICT (group_id, label) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build insert learning_unit: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return nil, false, postgres.MapError(err, "learning_unit", u.ID)
	}

	sql, args, err = psql.Select(unitColumns...).
		From("learning_units u").
		Where(squirrel.Eq{"u.group_id": u.GroupID, "u.label": u.Label}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build select learning_unit: %w", err)
	}

	var row unitRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, false, postgres.MapError(err, "learning_unit", u.Label)
	}

	stored := toDomain(row)
	return &stored, tag.RowsAffected() == 1, nil
}

// GetByID returns a unit. Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningUnit, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select(unitColumns...).
		From("learning_units u").
		Where(squirrel.Eq{"u.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select learning_unit: %w", err)
	}

	var row unitRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "learning_unit", id)
	}

	u := toDomain(row)
	return &u, nil
}

// GetSummary returns a unit joined with its stem and group.
func (r *Repo) GetSummary(ctx context.Context, id uuid.UUID) (*domain.UnitSummary, error) {
	rows, err := r.selectSummaries(ctx, summaryQuery().Where(squirrel.Eq{"u.id": id}))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("learning_unit %s: %w", id, domain.ErrNotFound)
	}
	return &rows[0], nil
}

// GetByLabelAndFingerprint returns the unit with label in the group
// identified by fingerprint.
func (r *Repo) GetByLabelAndFingerprint(ctx context.Context, label, fingerprint string) (*domain.UnitSummary, error) {
	rows, err := r.selectSummaries(ctx, summaryQuery().
		Where(squirrel.Eq{"u.label": label, "g.fingerprint": fingerprint}))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("learning_unit %q: %w", label, domain.ErrNotFound)
	}
	return &rows[0], nil
}

// FindByStemNorm returns every unit backed by a stem with the normalized form.
func (r *Repo) FindByStemNorm(ctx context.Context, norm string) ([]domain.UnitSummary, error) {
	return r.selectSummaries(ctx, summaryQuery().
		Where(squirrel.Eq{"s.norm": norm}).
		OrderBy("u.created_at ASC", "u.id ASC"))
}

// Search matches query case-insensitively against label, stem and
// normalized stem, newest first.
func (r *Repo) Search(ctx context.Context, query string, limit int) ([]domain.UnitSummary, error) {
	b := summaryQuery().OrderBy("u.created_at DESC", "u.id DESC").Limit(uint64(limit))

	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + escapeLike(query) + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"u.label": pattern},
			squirrel.ILike{"s.text": pattern},
			squirrel.ILike{"s.norm": pattern},
		})
	}
	return r.selectSummaries(ctx, b)
}

func (r *Repo) selectSummaries(ctx context.Context, b squirrel.SelectBuilder) ([]domain.UnitSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select units: %w", err)
	}

	var rows []summaryRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select units: %w", err)
	}

	out := make([]domain.UnitSummary, len(rows))
	for i, row := range rows {
		out[i] = domain.UnitSummary{
			Unit:        toDomain(row.unitRow),
			Stem:        row.Stem,
			StemNorm:    row.StemNorm,
			Fingerprint: row.Fingerprint,
			Headword:    row.Headword,
		}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func toDomain(row unitRow) domain.LearningUnit {
	return domain.LearningUnit{
		ID:                    row.ID,
		Label:                 row.Label,
		StemID:                row.StemID,
		GroupID:               row.GroupID,
		RepresentativeEntryID: row.RepresentativeEntryID,
		MatchMethod:           domain.MatchMethod(row.MatchMethod),
		CreatedFromLookupKey:  row.CreatedFromLookupKey,
		CreatedAt:             row.CreatedAt,
	}
}
