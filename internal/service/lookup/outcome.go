package lookup

import (
	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/lexicon"
)

// Kind is the terminal state of a lookup.
type Kind string

const (
	KindNone               Kind = "none"
	KindCandidates         Kind = "candidates"
	KindExisting           Kind = "existing"
	KindNewInExistingGroup Kind = "new_in_existing_group"
	KindNewWithNewGroup    Kind = "new_with_new_group"
)

func (k Kind) String() string { return string(k) }

// IsNew reports whether the outcome carries data that still has to be persisted.
func (k Kind) IsNew() bool {
	return k == KindNewInExistingGroup || k == KindNewWithNewGroup
}

// Outcome is the result of Search. Which fields are set depends on Kind:
//
//	none                   Reason, Suggestions
//	candidates             Candidates
//	existing               Unit
//	new_in_existing_group  Group (persisted), Graphs, Pick
//	new_with_new_group     Group (candidate), Graphs, Pick
//
// After Persist a new outcome also carries Unit.
type Outcome struct {
	Kind Kind
	// Key is the normalized comparison key of the input.
	Key string
	// Input is the input with only the first letter's case preserved.
	Input string

	Reason      string
	Suggestions []string
	Unit        *domain.UnitSummary
	Candidates  []domain.UnitSummary

	Group  domain.LexicalGroup
	Graphs []*domain.EntryGraph
	Pick   lexicon.Representation
	// Created is set by Persist when a new learning unit row was stored.
	Created bool
}

func none(key, input, reason string) *Outcome {
	return &Outcome{Kind: KindNone, Key: key, Input: input, Reason: reason}
}

// EntryIDs returns the ids of the outcome's entries in response order.
func (o *Outcome) EntryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(o.Graphs))
	for i, g := range o.Graphs {
		ids[i] = g.Entry.ID
	}
	return ids
}
