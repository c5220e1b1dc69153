package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/service/review/scheduler"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type vocabRepo interface {
	Add(ctx context.Context, v domain.UserVocab) (bool, error)
	GetForUpdate(ctx context.Context, userID, unitID uuid.UUID) (*domain.UserVocab, error)
	UpdateSchedule(ctx context.Context, v domain.UserVocab) error
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.DueItem, error)
	ListProgress(ctx context.Context, userID uuid.UUID) ([]int, error)
}

type progressRepo interface {
	Upsert(ctx context.Context, rec domain.ProgressRecord) error
	ListRecent(ctx context.Context, userID uuid.UUID, days int) ([]domain.ProgressRecord, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service manages a user's vocabulary and its review schedule.
type Service struct {
	vocab    vocabRepo
	progress progressRepo
	tx       txManager
	log      *slog.Logger
	settings scheduler.Settings
	dueLimit int
	now      func() time.Time
}

// NewService creates a review service.
func NewService(
	log *slog.Logger,
	vocab vocabRepo,
	progress progressRepo,
	tx txManager,
	settings scheduler.Settings,
	dueLimit int,
) *Service {
	return &Service{
		vocab:    vocab,
		progress: progress,
		tx:       tx,
		log:      log.With("service", "review"),
		settings: settings,
		dueLimit: dueLimit,
		now:      time.Now,
	}
}
