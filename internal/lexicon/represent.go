package lexicon

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

// Representation is the label and backing stem chosen for a new learning unit.
type Representation struct {
	EntryID  uuid.UUID
	Label    string
	StemRank int
	Method   domain.MatchMethod
}

// PickRepresentation chooses the representative entry and label for a lookup
// across the entries of one response, in response order.
//
// The first entry declaring a stem equal to the lookup (case-insensitively)
// wins, preferring the stem whose first letter has the case of the lookup's
// first letter. Otherwise the first entry's headword is used, and failing
// that its first stem. graphs must not be empty.
func PickRepresentation(graphs []*domain.EntryGraph, lookup string) Representation {
	caseKey := domain.CaseKey(lookup)
	lower := domain.CompareKey(caseKey)
	preferUpper := domain.StartsUpper(caseKey)

	for _, g := range graphs {
		if s, ok := pickStem(g.Stems, lower, preferUpper); ok {
			return Representation{
				EntryID:  g.Entry.ID,
				Label:    domain.DisplayForm(s.Text),
				StemRank: s.Rank,
				Method:   domain.MatchStem,
			}
		}
	}

	first := graphs[0]
	rep := Representation{EntryID: first.Entry.ID}
	if first.Entry.HeadwordRaw != nil && domain.DisplayForm(*first.Entry.HeadwordRaw) != "" {
		rep.Label = domain.DisplayForm(*first.Entry.HeadwordRaw)
		rep.Method = domain.MatchHeadword
		if s, ok := pickStem(first.Stems, domain.CompareKey(rep.Label), domain.StartsUpper(rep.Label)); ok {
			rep.StemRank = s.Rank
		}
		return rep
	}
	if len(first.Stems) > 0 {
		rep.Label = domain.DisplayForm(first.Stems[0].Text)
	}
	rep.Method = domain.MatchFirstStem
	return rep
}

func pickStem(stems []domain.Stem, lower string, preferUpper bool) (domain.Stem, bool) {
	var matches []domain.Stem
	for _, s := range stems {
		if s.Norm == lower {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return domain.Stem{}, false
	}
	for _, m := range matches {
		display := domain.DisplayForm(m.Text)
		if preferUpper && domain.StartsUpper(display) || !preferUpper && domain.StartsLower(display) {
			return m, true
		}
	}
	return matches[0], true
}
