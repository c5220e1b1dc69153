package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one dictionary entry document as fetched from the dictionary API.
// It is immutable once fetched; a re-fetch replaces it.
type Entry struct {
	ID          uuid.UUID
	MetaID      *string
	HeadwordRaw *string
	Stems       []string
	Raw         json.RawMessage
	FetchedAt   time.Time
}

// Headword is the canonical display form of an entry. There is at most one.
type Headword struct {
	EntryID uuid.UUID
	Text    string
}

type AlternateHeadword struct {
	ID      uuid.UUID
	EntryID uuid.UUID
	Text    string
	Rank    int
}

// DefinedRunOn is a sub-entry phrase with its own definition tree.
type DefinedRunOn struct {
	ID         uuid.UUID
	EntryID    uuid.UUID
	Phrase     string
	Definition json.RawMessage
	Rank       int
}

// UndefinedRunOn is a derived word form that borrows the parent's senses.
type UndefinedRunOn struct {
	ID              uuid.UUID
	EntryID         uuid.UUID
	Word            string
	FunctionalLabel string
	Text            json.RawMessage
	Raw             json.RawMessage
	Rank            int
}

// ScopeKind tells where inside an entry document a variant, inflection or
// sense was found.
type ScopeKind string

const (
	ScopeEntry        ScopeKind = "ENTRY"
	ScopeDefinedRunOn ScopeKind = "DRO"
	ScopeUndefinedRun ScopeKind = "URO"
)

func (k ScopeKind) String() string { return string(k) }

func (k ScopeKind) IsValid() bool {
	switch k {
	case ScopeEntry, ScopeDefinedRunOn, ScopeUndefinedRun:
		return true
	}
	return false
}

// Scope locates a nested list by kind and structural path, e.g. $.uros[1].vrs.
type Scope struct {
	Kind ScopeKind
	Ref  string
}

type Variant struct {
	ID      uuid.UUID
	EntryID uuid.UUID
	Text    string
	Label   *string
	Scope   Scope
	Rank    int
}

type Inflection struct {
	ID      uuid.UUID
	EntryID uuid.UUID
	Form    *string
	Cutback *string
	Label   *string
	Scope   Scope
	Rank    int
}

// Pronunciation is ranked within its owner; (owner kind, owner id, rank) is unique.
type Pronunciation struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	Owner       Owner
	Written     *string
	Punctuation *string
	LabelBefore *string
	LabelAfter  *string
	Audio       *string
	AudioRef    *string
	AudioStat   *string
	Rank        int
}

// AudioURL returns the playback URL of the pronunciation, nil without audio.
func (p Pronunciation) AudioURL() *string {
	if p.Audio == nil {
		return nil
	}
	u := AudioURL(*p.Audio)
	return &u
}

// Stem is a declared searchable surface form of an entry. A nil Anchor means
// the stem could not be placed in the entry's semantic graph.
type Stem struct {
	ID              uuid.UUID
	EntryID         uuid.UUID
	Text            string
	Norm            string
	Anchor          Owner
	FallbackWarning bool
	Rank            int
	FetchedAt       time.Time
}

// EntryGraph is everything derived in one pass from one entry document.
type EntryGraph struct {
	Entry              Entry
	Headword           *Headword
	AlternateHeadwords []AlternateHeadword
	DefinedRunOns      []DefinedRunOn
	UndefinedRunOns    []UndefinedRunOn
	Variants           []Variant
	Inflections        []Inflection
	Pronunciations     []Pronunciation
	Stems              []Stem
	Senses             []Sense
	SenseDetails       []SenseDetail
}

// UnresolvedStems counts stems that carry the fallback warning.
func (g *EntryGraph) UnresolvedStems() int {
	n := 0
	for _, s := range g.Stems {
		if s.FallbackWarning {
			n++
		}
	}
	return n
}

// StemByRank returns the stem declared at rank.
func (g *EntryGraph) StemByRank(rank int) (Stem, bool) {
	for _, s := range g.Stems {
		if s.Rank == rank {
			return s, true
		}
	}
	return Stem{}, false
}
