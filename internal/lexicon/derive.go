package lexicon

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/lexicon/sensetree"
)

// Derive builds the full semantic graph of one document: extracted records,
// anchored stems and the flattened definition trees. It is deterministic;
// deriving the same document twice gives equal graphs.
func Derive(doc Document) *domain.EntryGraph {
	x := extract(doc)

	droIDs := make(map[int]uuid.UUID, len(x.definedRunOns))
	for _, d := range x.definedRunOns {
		droIDs[d.Rank] = d.ID
	}
	senses := sensetree.Parse(doc.Entry.ID, doc.Root, droIDs)

	return &domain.EntryGraph{
		Entry:              doc.Entry,
		Headword:           x.headword,
		AlternateHeadwords: x.alternateHeadwords,
		DefinedRunOns:      x.definedRunOns,
		UndefinedRunOns:    x.undefinedRunOns,
		Variants:           x.variants,
		Inflections:        x.inflections,
		Pronunciations:     x.pronunciations,
		Stems:              resolveStems(doc.Entry, newAnchorIndex(doc.Entry, x)),
		Senses:             senses.Senses,
		SenseDetails:       senses.Details,
	}
}
