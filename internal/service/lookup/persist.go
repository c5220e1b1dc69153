package lookup

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

// Persist writes what out resolved to. New outcomes store the group, every
// entry graph, the group links, the learning unit and the lookup key in one
// transaction and set out.Unit. Existing and candidate outcomes only record
// the lookup key; none writes nothing.
func (s *Service) Persist(ctx context.Context, out *Outcome) error {
	switch out.Kind {
	case KindNone:
		return nil
	case KindExisting:
		if err := s.keys.Touch(ctx, out.Key, &out.Unit.Unit.ID); err != nil {
			return fmt.Errorf("touch lookup key: %w", err)
		}
		return nil
	case KindCandidates:
		if err := s.keys.Touch(ctx, out.Key, nil); err != nil {
			return fmt.Errorf("touch lookup key: %w", err)
		}
		return nil
	}

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		group, err := s.groups.Ensure(ctx, out.Group)
		if err != nil {
			return fmt.Errorf("ensure group: %w", err)
		}

		for _, g := range out.Graphs {
			if err := s.entries.SaveGraph(ctx, g); err != nil {
				return fmt.Errorf("save entry %s: %w", g.Entry.ID, err)
			}
		}

		if err := s.groups.LinkEntries(ctx, group.ID, out.EntryIDs()); err != nil {
			return fmt.Errorf("link group entries: %w", err)
		}

		stem, err := s.entries.GetStemByRank(ctx, out.Pick.EntryID, out.Pick.StemRank)
		if err != nil {
			return fmt.Errorf("get selected stem: %w", err)
		}

		unit, created, err := s.units.Insert(ctx, domain.LearningUnit{
			ID:                    uuid.New(),
			Label:                 out.Pick.Label,
			StemID:                stem.ID,
			GroupID:               group.ID,
			RepresentativeEntryID: out.Pick.EntryID,
			MatchMethod:           out.Pick.Method,
			CreatedFromLookupKey:  out.Input,
			CreatedAt:             s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert unit: %w", err)
		}

		if err := s.keys.Touch(ctx, out.Key, &unit.ID); err != nil {
			return fmt.Errorf("touch lookup key: %w", err)
		}

		summary, err := s.units.GetSummary(ctx, unit.ID)
		if err != nil {
			return fmt.Errorf("get unit summary: %w", err)
		}

		out.Group = *group
		out.Unit = summary
		out.Created = created
		return nil
	})
}
