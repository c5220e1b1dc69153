// Package lookup resolves a user's word query to a learning unit, fetching
// from the dictionary and persisting new lexical data when nothing local matches.
package lookup

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type dictionary interface {
	FetchWord(ctx context.Context, word string) (provider.LookupResult, error)
}

type entryRepo interface {
	SaveGraph(ctx context.Context, g *domain.EntryGraph) error
	GetStemByRank(ctx context.Context, entryID uuid.UUID, rank int) (*domain.Stem, error)
	GetStem(ctx context.Context, id uuid.UUID) (*domain.Stem, error)
	GetGraph(ctx context.Context, id uuid.UUID) (*domain.EntryGraph, error)
}

type groupRepo interface {
	GetByFingerprint(ctx context.Context, fingerprint string) (*domain.LexicalGroup, error)
	Ensure(ctx context.Context, candidate domain.LexicalGroup) (*domain.LexicalGroup, error)
	LinkEntries(ctx context.Context, groupID uuid.UUID, entryIDs []uuid.UUID) error
}

type unitRepo interface {
	FindByStemNorm(ctx context.Context, norm string) ([]domain.UnitSummary, error)
	GetByLabelAndFingerprint(ctx context.Context, label, fingerprint string) (*domain.UnitSummary, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*domain.UnitSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningUnit, error)
	Insert(ctx context.Context, u domain.LearningUnit) (*domain.LearningUnit, bool, error)
	Search(ctx context.Context, query string, limit int) ([]domain.UnitSummary, error)
}

type lookupKeyRepo interface {
	Get(ctx context.Context, key string) (*domain.LookupKey, error)
	Touch(ctx context.Context, key string, unitID *uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements word lookup and the read-only library queries.
type Service struct {
	dict    dictionary
	entries entryRepo
	groups  groupRepo
	units   unitRepo
	keys    lookupKeyRepo
	tx      txManager
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a lookup service.
func NewService(
	log *slog.Logger,
	dict dictionary,
	entries entryRepo,
	groups groupRepo,
	units unitRepo,
	keys lookupKeyRepo,
	tx txManager,
) *Service {
	return &Service{
		dict:    dict,
		entries: entries,
		groups:  groups,
		units:   units,
		keys:    keys,
		tx:      tx,
		log:     log.With("service", "lookup"),
		now:     time.Now,
	}
}
