// Package backfill re-derives the semantic graph of stored dictionary
// entries from their persisted raw documents.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/lexicon"
	"github.com/heartmarshall/myvocab-backend/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	SaveGraph(ctx context.Context, g *domain.EntryGraph) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Report summarizes a BackfillAll run.
type Report struct {
	Processed       int
	Failed          int
	UnresolvedStems int
	FailedIDs       []uuid.UUID
}

// Service re-derives stored entries without calling the dictionary.
type Service struct {
	entries  entryRepo
	log      *slog.Logger
	pageSize int
}

// NewService creates a backfill service. pageSize is the number of entry
// ids read per page in BackfillAll.
func NewService(log *slog.Logger, entries entryRepo, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Service{
		entries:  entries,
		log:      log.With("service", "backfill"),
		pageSize: pageSize,
	}
}

// BackfillEntry rebuilds the derived graph of one entry from its stored raw
// document and returns it. Stem identities are preserved by rank.
func (s *Service) BackfillEntry(ctx context.Context, id uuid.UUID) (*domain.EntryGraph, error) {
	e, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	doc, err := lexicon.NewDocument(*e)
	if err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", id, err)
	}

	g := lexicon.Derive(doc)
	if err := s.entries.SaveGraph(ctx, g); err != nil {
		return nil, fmt.Errorf("save entry %s: %w", id, err)
	}
	return g, nil
}

// BackfillAll rebuilds every stored entry with at most concurrency entries in
// flight. A failing entry is logged and counted; only cancellation of ctx
// or a failure to list entries aborts the run.
func (s *Service) BackfillAll(ctx context.Context, concurrency int) (Report, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		report Report
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	after := uuid.Nil
	for {
		ids, err := s.entries.ListIDs(gctx, after, s.pageSize)
		if err != nil {
			_ = g.Wait()
			return report, fmt.Errorf("list entries: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			g.Go(func() error {
				graph, err := s.BackfillEntry(gctx, id)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				mu.Lock()
				defer mu.Unlock()
				report.Processed++
				if err != nil {
					report.Failed++
					report.FailedIDs = append(report.FailedIDs, id)
					metrics.RecordBackfill("failed")
					s.log.ErrorContext(gctx, "backfill entry failed",
						slog.String("entry_id", id.String()),
						slog.String("error", err.Error()),
					)
					return nil
				}
				metrics.RecordBackfill("ok")
				if n := graph.UnresolvedStems(); n > 0 {
					report.UnresolvedStems += n
					s.log.WarnContext(gctx, "entry has unresolved stems",
						slog.String("entry_id", id.String()),
						slog.Int("count", n),
					)
				}
				return nil
			})
		}

		if len(ids) < s.pageSize {
			break
		}
		after = ids[len(ids)-1]
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("backfill: %w", err)
	}

	s.log.InfoContext(ctx, "backfill finished",
		slog.Int("processed", report.Processed),
		slog.Int("failed", report.Failed),
		slog.Int("unresolved_stems", report.UnresolvedStems),
	)
	return report, nil
}
