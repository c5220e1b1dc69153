// Package progress stores daily snapshots of a user's vocabulary progress.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

type recordRow struct {
	UserID          uuid.UUID `db:"user_id"`
	Date            time.Time `db:"date"`
	VocabCount      int       `db:"vocab_count"`
	AverageProgress int       `db:"average_progress"`
}

// Repo provides daily progress persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a new progress repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Upsert stores the snapshot of rec.Date, replacing an earlier one of the same day.
func (r *Repo) Upsert(ctx context.Context, rec domain.ProgressRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO user_daily_progress (user_id, date, vocab_count, average_progress)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO UPDATE SET
			vocab_count = EXCLUDED.vocab_count,
			average_progress = EXCLUDED.average_progress`,
		rec.UserID, rec.Date, rec.VocabCount, rec.AverageProgress,
	)
	if err != nil {
		return postgres.MapError(err, "user_daily_progress", rec.UserID)
	}
	return nil
}

// ListRecent returns the snapshots of the last days days, oldest first.
func (r *Repo) ListRecent(ctx context.Context, userID uuid.UUID, days int) ([]domain.ProgressRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []recordRow
	err := pgxscan.Select(ctx, q, &rows, `
		SELECT user_id, date, vocab_count, average_progress
		FROM user_daily_progress
		WHERE user_id = $1 AND date > current_date - $2::int
		ORDER BY date`,
		userID, days,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress records: %w", err)
	}

	recs := make([]domain.ProgressRecord, len(rows))
	for i, row := range rows {
		recs[i] = domain.ProgressRecord(row)
	}
	return recs, nil
}
