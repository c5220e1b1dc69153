package domain

import (
	"time"

	"github.com/google/uuid"
)

// LexicalGroup is the set of entries that co-occur in one dictionary
// response. Fingerprint is globally unique.
type LexicalGroup struct {
	ID          uuid.UUID
	Fingerprint string
	CreatedAt   time.Time
}

type GroupEntry struct {
	GroupID uuid.UUID
	EntryID uuid.UUID
	Rank    int
}

// MatchMethod records how the label of a learning unit was chosen.
type MatchMethod string

const (
	MatchStem      MatchMethod = "stem"
	MatchHeadword  MatchMethod = "headword"
	MatchFirstStem MatchMethod = "first_stem"
)

func (m MatchMethod) String() string { return string(m) }

// IsFallback reports whether the label did not come from a stem matching
// the user's input.
func (m MatchMethod) IsFallback() bool { return m != MatchStem }

// LearningUnit is a user-facing vocabulary item backed by exactly one stem.
// (GroupID, Label) is unique.
type LearningUnit struct {
	ID                    uuid.UUID
	Label                 string
	StemID                uuid.UUID
	GroupID               uuid.UUID
	RepresentativeEntryID uuid.UUID
	MatchMethod           MatchMethod
	CreatedFromLookupKey  string
	CreatedAt             time.Time
}

// UnitSummary is a learning unit joined with its stem and group, as returned
// by local lookups and library search.
type UnitSummary struct {
	Unit        LearningUnit
	Stem        string
	StemNorm    string
	Fingerprint string
	Headword    *string
}

// UnitDetail is a learning unit with its stem and the full graph of its
// representative entry.
type UnitDetail struct {
	Unit  LearningUnit
	Stem  Stem
	Graph *EntryGraph
}

// LookupKey maps a normalized lookup string to the unit it last resolved to.
type LookupKey struct {
	Key        string
	UnitID     *uuid.UUID
	CreatedAt  time.Time
	LastSeenAt time.Time
	HitCount   int
}
