package review

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/service/review/scheduler"
	"github.com/heartmarshall/myvocab-backend/pkg/ctxutil"
)

// AddToVocab puts a learning unit into the current user's vocabulary. Adding
// a unit twice is a no-op; the boolean reports whether a row was created.
func (s *Service) AddToVocab(ctx context.Context, unitID uuid.UUID) (bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}
	if unitID == uuid.Nil {
		return false, domain.NewValidationError("unit_id", "required")
	}

	now := s.now()
	first := scheduler.NextReview(0, domain.ReviewNone, now, s.settings)

	added, err := s.vocab.Add(ctx, domain.UserVocab{
		UserID:       userID,
		UnitID:       unitID,
		NextReviewAt: &first.NextDueAt,
		Progress:     first.Progress,
		CreatedAt:    now,
	})
	if err != nil {
		return false, fmt.Errorf("add vocab: %w", err)
	}
	if added {
		s.log.InfoContext(ctx, "unit added to vocabulary",
			slog.String("user_id", userID.String()),
			slog.String("unit_id", unitID.String()),
		)
	}
	return added, nil
}

// SubmitReview records a pass or fail for one unit and reschedules it.
func (s *Service) SubmitReview(ctx context.Context, input SubmitReviewInput) (*domain.UserVocab, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	outcome, mastery := domain.ReviewFail, 0
	if input.Remembered {
		outcome, mastery = domain.ReviewPass, 1
	}

	var updated domain.UserVocab
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		v, err := s.vocab.GetForUpdate(ctx, userID, input.UnitID)
		if err != nil {
			return fmt.Errorf("get vocab: %w", err)
		}

		now := s.now()
		res := scheduler.NextReview(v.Progress, outcome, now, s.settings)

		updated = *v
		updated.LastReviewedAt = &now
		updated.NextReviewAt = &res.NextDueAt
		updated.Progress = res.Progress
		updated.RecentMastery = &mastery

		if err := s.vocab.UpdateSchedule(ctx, updated); err != nil {
			return fmt.Errorf("update vocab: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "review submitted",
		slog.String("user_id", userID.String()),
		slog.String("unit_id", input.UnitID.String()),
		slog.String("outcome", outcome.String()),
		slog.Int("progress", updated.Progress),
	)
	return &updated, nil
}

// DueCount returns how many of the user's units are due now.
func (s *Service) DueCount(ctx context.Context) (int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	n, err := s.vocab.CountDue(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return n, nil
}

// DueItems lists due units, most overdue first.
func (s *Service) DueItems(ctx context.Context, input DueItemsInput) ([]domain.DueItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.dueLimit
	}
	items, err := s.vocab.ListDue(ctx, userID, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("list due: %w", err)
	}
	return items, nil
}

// Summary aggregates the user's vocabulary: size, mean percentage progress
// and the number of due units.
func (s *Service) Summary(ctx context.Context) (domain.VocabSummary, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.VocabSummary{}, domain.ErrUnauthorized
	}

	progress, err := s.vocab.ListProgress(ctx, userID)
	if err != nil {
		return domain.VocabSummary{}, fmt.Errorf("list progress: %w", err)
	}
	due, err := s.vocab.CountDue(ctx, userID, s.now())
	if err != nil {
		return domain.VocabSummary{}, fmt.Errorf("count due: %w", err)
	}

	return domain.VocabSummary{
		Total:             len(progress),
		AveragePercentage: averagePercentage(progress),
		DueCount:          due,
	}, nil
}

// RecordDailyProgress stores today's snapshot of the user's vocabulary.
// Recording the same day again overwrites the snapshot.
func (s *Service) RecordDailyProgress(ctx context.Context) (domain.ProgressRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ProgressRecord{}, domain.ErrUnauthorized
	}

	progress, err := s.vocab.ListProgress(ctx, userID)
	if err != nil {
		return domain.ProgressRecord{}, fmt.Errorf("list progress: %w", err)
	}

	now := s.now().UTC()
	rec := domain.ProgressRecord{
		UserID:          userID,
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		VocabCount:      len(progress),
		AverageProgress: int(math.Round(averagePercentage(progress))),
	}
	if err := s.progress.Upsert(ctx, rec); err != nil {
		return domain.ProgressRecord{}, fmt.Errorf("upsert progress record: %w", err)
	}
	return rec, nil
}

// RecentProgress returns the most recent daily snapshots, newest first.
func (s *Service) RecentProgress(ctx context.Context, input RecentProgressInput) ([]domain.ProgressRecord, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	recs, err := s.progress.ListRecent(ctx, userID, input.Days)
	if err != nil {
		return nil, fmt.Errorf("list progress records: %w", err)
	}
	return recs, nil
}

func averagePercentage(progress []int) float64 {
	if len(progress) == 0 {
		return 0
	}
	var sum float64
	for _, p := range progress {
		sum += scheduler.PercentageProgress(float64(p))
	}
	return sum / float64(len(progress))
}
