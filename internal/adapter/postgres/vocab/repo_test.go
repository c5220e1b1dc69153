package vocab

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

func newMock(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

var vocabCols = []string{"user_id", "unit_id", "last_reviewed_at", "next_review_at", "progress", "recent_mastery", "created_at"}

func TestRepo_Add(t *testing.T) {
	t.Parallel()

	now := time.Now()
	v := domain.UserVocab{UserID: uuid.New(), UnitID: uuid.New(), NextReviewAt: &now, CreatedAt: now}

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		want    bool
		wantErr error
	}{
		{
			name: "inserted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO user_vocab .* ON CONFLICT \(user_id, unit_id\) DO NOTHING`).
					WithArgs(v.UserID, v.UnitID, v.LastReviewedAt, v.NextReviewAt, 0, v.RecentMastery, v.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			want: true,
		},
		{
			name: "already present",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO user_vocab`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
			},
			want: false,
		},
		{
			name: "unknown unit",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO user_vocab`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23503"})
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMock(t)
			tt.setup(mock)

			got, err := repo.Add(context.Background(), v)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_GetForUpdate(t *testing.T) {
	t.Parallel()

	userID, unitID := uuid.New(), uuid.New()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMock(t)
		mastery := 1
		mock.ExpectQuery(`SELECT .* FROM user_vocab v WHERE .* FOR UPDATE`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(vocabCols).AddRow(userID, unitID, &now, &now, 3, &mastery, now))

		v, err := repo.GetForUpdate(context.Background(), userID, unitID)
		require.NoError(t, err)
		assert.Equal(t, 3, v.Progress)
		require.NotNil(t, v.RecentMastery)
		assert.Equal(t, 1, *v.RecentMastery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMock(t)
		mock.ExpectQuery(`SELECT`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetForUpdate(context.Background(), userID, unitID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRepo_UpdateSchedule_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE user_vocab SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateSchedule(context.Background(), domain.UserVocab{UserID: uuid.New(), UnitID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_CountDue(t *testing.T) {
	t.Parallel()
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM user_vocab v WHERE .*next_review_at IS NULL OR v.next_review_at <= `).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountDue(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListDue(t *testing.T) {
	t.Parallel()
	repo, mock := newMock(t)

	userID := uuid.New()
	now := time.Now()
	cols := append(append([]string{}, vocabCols...), "label")

	mock.ExpectQuery(`SELECT .* FROM user_vocab v JOIN learning_units u ON u.id = v.unit_id .* ORDER BY v.next_review_at ASC NULLS FIRST, v.created_at ASC LIMIT 10`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(userID, uuid.New(), nil, nil, 0, nil, now, "mercury").
			AddRow(userID, uuid.New(), &now, &now, 2, nil, now, "Venus"))

	items, err := repo.ListDue(context.Background(), userID, now, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "mercury", items[0].Label)
	assert.Nil(t, items[0].Vocab.NextReviewAt)
	assert.Equal(t, 2, items[1].Vocab.Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListProgress(t *testing.T) {
	t.Parallel()
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT progress FROM user_vocab WHERE user_id = \$1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"progress"}).AddRow(0).AddRow(5))

	got, err := repo.ListProgress(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5}, got)
}
