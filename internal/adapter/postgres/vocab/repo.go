// Package vocab implements the user vocabulary repository using PostgreSQL.
package vocab

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

var vocabColumns = []string{
	"v.user_id", "v.unit_id", "v.last_reviewed_at", "v.next_review_at",
	"v.progress", "v.recent_mastery", "v.created_at",
}

type vocabRow struct {
	UserID         uuid.UUID  `db:"user_id"`
	UnitID         uuid.UUID  `db:"unit_id"`
	LastReviewedAt *time.Time `db:"last_reviewed_at"`
	NextReviewAt   *time.Time `db:"next_review_at"`
	Progress       int        `db:"progress"`
	RecentMastery  *int       `db:"recent_mastery"`
	CreatedAt      time.Time  `db:"created_at"`
}

type dueRow struct {
	vocabRow
	Label string `db:"label"`
}

// Repo provides user vocabulary persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new vocabulary repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Add inserts v unless the user already has the unit. Reports whether a row
// was inserted. Returns domain.ErrNotFound if the unit does not exist.
func (r *Repo) Add(ctx context.Context, v domain.UserVocab) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Insert("user_vocab").
		Columns("user_id", "unit_id", "last_reviewed_at", "next_review_at", "progress", "recent_mastery", "created_at").
		Values(v.UserID, v.UnitID, v.LastReviewedAt, v.NextReviewAt, v.Progress, v.RecentMastery, v.CreatedAt).
		Suffix("ON CONFLICT (user_id, unit_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert user_vocab: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "learning_unit", v.UnitID)
	}
	return tag.RowsAffected() == 1, nil
}

// GetForUpdate loads one vocabulary row and locks it until the end of the
// surrounding transaction.
func (r *Repo) GetForUpdate(ctx context.Context, userID, unitID uuid.UUID) (*domain.UserVocab, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select(vocabColumns...).
		From("user_vocab v").
		Where(squirrel.Eq{"v.user_id": userID, "v.unit_id": unitID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user_vocab: %w", err)
	}

	var row vocabRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user_vocab", unitID)
	}

	v := toDomain(row)
	return &v, nil
}

// UpdateSchedule stores the review state of v.
func (r *Repo) UpdateSchedule(ctx context.Context, v domain.UserVocab) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Update("user_vocab").
		Set("last_reviewed_at", v.LastReviewedAt).
		Set("next_review_at", v.NextReviewAt).
		Set("progress", v.Progress).
		Set("recent_mastery", v.RecentMastery).
		Where(squirrel.Eq{"user_id": v.UserID, "unit_id": v.UnitID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user_vocab: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user_vocab", v.UnitID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_vocab %s: %w", v.UnitID, domain.ErrNotFound)
	}
	return nil
}

func dueCondition(userID uuid.UUID, now time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"v.user_id": userID},
		squirrel.Or{
			squirrel.Eq{"v.next_review_at": nil},
			squirrel.LtOrEq{"v.next_review_at": now},
		},
	}
}

// CountDue counts the user's items due at now.
func (r *Repo) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select("count(*)").
		From("user_vocab v").
		Where(dueCondition(userID, now)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count due: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return n, nil
}

// ListDue returns up to limit due items, never-scheduled first, then oldest
// due date first.
func (r *Repo) ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.DueItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select(append(vocabColumns, "u.label")...).
		From("user_vocab v").
		Join("learning_units u ON u.id = v.unit_id").
		Where(dueCondition(userID, now)).
		OrderBy("v.next_review_at ASC NULLS FIRST", "v.created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list due: %w", err)
	}

	var rows []dueRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list due: %w", err)
	}

	items := make([]domain.DueItem, len(rows))
	for i, row := range rows {
		items[i] = domain.DueItem{Vocab: toDomain(row.vocabRow), Label: row.Label}
	}
	return items, nil
}

// ListProgress returns the progress counter of every item of the user.
func (r *Repo) ListProgress(ctx context.Context, userID uuid.UUID) ([]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var progress []int
	if err := pgxscan.Select(ctx, q, &progress,
		`SELECT progress FROM user_vocab WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return progress, nil
}

func toDomain(row vocabRow) domain.UserVocab {
	return domain.UserVocab{
		UserID:         row.UserID,
		UnitID:         row.UnitID,
		LastReviewedAt: row.LastReviewedAt,
		NextReviewAt:   row.NextReviewAt,
		Progress:       row.Progress,
		RecentMastery:  row.RecentMastery,
		CreatedAt:      row.CreatedAt,
	}
}
