package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/lexicon"
	"github.com/heartmarshall/myvocab-backend/internal/metrics"
	"github.com/heartmarshall/myvocab-backend/internal/provider"
)

const maxWordLength = 100

// Lookup resolves word and persists whatever the resolution produced.
func (s *Service) Lookup(ctx context.Context, word string) (*Outcome, error) {
	out, err := s.Search(ctx, word)
	if err != nil {
		return nil, err
	}
	if err := s.Persist(ctx, out); err != nil {
		return nil, err
	}

	metrics.RecordLookupOutcome(out.Kind.String())
	s.log.InfoContext(ctx, "lookup resolved",
		slog.String("key", out.Key),
		slog.String("outcome", out.Kind.String()),
		slog.Bool("created", out.Created),
	)
	return out, nil
}

// Search runs the lookup state machine without writing anything. It only
// returns an error for invalid input and infrastructure failures; every
// dictionary answer without entries is an Outcome of kind none.
func (s *Service) Search(ctx context.Context, word string) (*Outcome, error) {
	input := domain.CaseKey(word)
	key := domain.CompareKey(input)
	if key == "" {
		return nil, domain.NewValidationError("word", "required")
	}
	if utf8.RuneCountInString(key) > maxWordLength {
		return nil, domain.NewValidationError("word", fmt.Sprintf("max %d characters", maxWordLength))
	}

	local, err := s.units.FindByStemNorm(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find local units: %w", err)
	}
	switch len(local) {
	case 0:
	case 1:
		return &Outcome{Kind: KindExisting, Key: key, Input: input, Unit: &local[0]}, nil
	default:
		return &Outcome{Kind: KindCandidates, Key: key, Input: input, Candidates: local}, nil
	}

	known, err := s.knownUnit(ctx, key)
	if err != nil {
		return nil, err
	}
	if known != nil {
		return &Outcome{Kind: KindExisting, Key: key, Input: input, Unit: known}, nil
	}

	res, err := s.dict.FetchWord(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch word: %w", err)
	}
	if res.Kind != provider.LookupEntries {
		out := none(key, input, res.Reason())
		out.Suggestions = res.Suggestions
		return out, nil
	}

	return s.resolveEntries(ctx, key, input, res.Raw)
}

// knownUnit returns the unit a previous lookup of key resolved to, if any.
// Keys that are not a stem of any entry (e.g. "ran" resolving to "run") only
// reach their unit this way.
func (s *Service) knownUnit(ctx context.Context, key string) (*domain.UnitSummary, error) {
	lk, err := s.keys.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lookup key: %w", err)
	}
	if lk.UnitID == nil {
		return nil, nil
	}

	unit, err := s.units.GetSummary(ctx, *lk.UnitID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unit summary: %w", err)
	}
	return unit, nil
}

func (s *Service) resolveEntries(ctx context.Context, key, input string, raw []byte) (*Outcome, error) {
	now := s.now().UTC()

	docs, err := lexicon.ParseEntries(raw, now)
	if err != nil {
		return nil, fmt.Errorf("parse entries: %w", err)
	}
	if len(docs) == 0 {
		return none(key, input, fmt.Sprintf("no usable entries for %q", key)), nil
	}

	graphs := make([]*domain.EntryGraph, len(docs))
	for i, doc := range docs {
		graphs[i] = lexicon.Derive(doc)
	}

	pick := lexicon.PickRepresentation(graphs, input)
	rep := graphFor(graphs, pick.EntryID)
	if _, ok := rep.StemByRank(pick.StemRank); !ok || pick.Label == "" {
		return none(key, input, fmt.Sprintf("entry %s declares no stems", pick.EntryID)), nil
	}

	out := &Outcome{Key: key, Input: input, Graphs: graphs, Pick: pick}
	fp := lexicon.Fingerprint(out.EntryIDs())

	group, err := s.groups.GetByFingerprint(ctx, fp)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		out.Kind = KindNewWithNewGroup
		out.Group = domain.LexicalGroup{ID: uuid.New(), Fingerprint: fp, CreatedAt: now}
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("get group: %w", err)
	}

	unit, err := s.units.GetByLabelAndFingerprint(ctx, pick.Label, fp)
	switch {
	case err == nil:
		return &Outcome{Kind: KindExisting, Key: key, Input: input, Unit: unit}, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get unit by label: %w", err)
	}

	out.Kind = KindNewInExistingGroup
	out.Group = *group
	return out, nil
}

func graphFor(graphs []*domain.EntryGraph, entryID uuid.UUID) *domain.EntryGraph {
	for _, g := range graphs {
		if g.Entry.ID == entryID {
			return g
		}
	}
	return graphs[0]
}
