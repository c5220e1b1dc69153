package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// AnchorKind names the semantic record a stem resolves to, or that owns a
// pronunciation.
type AnchorKind string

const (
	AnchorHeadword          AnchorKind = "HWI"
	AnchorAlternateHeadword AnchorKind = "AHW"
	AnchorDefinedRunOn      AnchorKind = "DRO"
	AnchorUndefinedRunOn    AnchorKind = "URO"
	AnchorVariant           AnchorKind = "VRS"
	AnchorInflection        AnchorKind = "INS"
	AnchorUnknown           AnchorKind = "UNKNOWN"
)

func (k AnchorKind) String() string { return string(k) }

func (k AnchorKind) IsValid() bool {
	switch k {
	case AnchorHeadword, AnchorAlternateHeadword, AnchorDefinedRunOn,
		AnchorUndefinedRunOn, AnchorVariant, AnchorInflection, AnchorUnknown:
		return true
	}
	return false
}

// Owner is a reference to one of the six semantic records that can own
// pronunciations and anchor stems. The set of implementations is closed.
type Owner interface {
	Kind() AnchorKind
	ID() uuid.UUID
	isOwner()
}

// HeadwordRef points at the single headword of an entry. A headword has no id
// of its own, it is identified by its entry.
type HeadwordRef struct{ EntryID uuid.UUID }

type AlternateHeadwordRef struct{ AlternateHeadwordID uuid.UUID }

type DefinedRunOnRef struct{ DefinedRunOnID uuid.UUID }

type UndefinedRunOnRef struct{ UndefinedRunOnID uuid.UUID }

type VariantRef struct{ VariantID uuid.UUID }

type InflectionRef struct{ InflectionID uuid.UUID }

func (r HeadwordRef) Kind() AnchorKind          { return AnchorHeadword }
func (r AlternateHeadwordRef) Kind() AnchorKind { return AnchorAlternateHeadword }
func (r DefinedRunOnRef) Kind() AnchorKind      { return AnchorDefinedRunOn }
func (r UndefinedRunOnRef) Kind() AnchorKind    { return AnchorUndefinedRunOn }
func (r VariantRef) Kind() AnchorKind           { return AnchorVariant }
func (r InflectionRef) Kind() AnchorKind        { return AnchorInflection }

func (r HeadwordRef) ID() uuid.UUID          { return r.EntryID }
func (r AlternateHeadwordRef) ID() uuid.UUID { return r.AlternateHeadwordID }
func (r DefinedRunOnRef) ID() uuid.UUID      { return r.DefinedRunOnID }
func (r UndefinedRunOnRef) ID() uuid.UUID    { return r.UndefinedRunOnID }
func (r VariantRef) ID() uuid.UUID           { return r.VariantID }
func (r InflectionRef) ID() uuid.UUID        { return r.InflectionID }

func (HeadwordRef) isOwner()          {}
func (AlternateHeadwordRef) isOwner() {}
func (DefinedRunOnRef) isOwner()      {}
func (UndefinedRunOnRef) isOwner()    {}
func (VariantRef) isOwner()           {}
func (InflectionRef) isOwner()        {}

// NewOwner rebuilds an owner reference from its stored (kind, id) pair.
// AnchorUnknown yields a nil Owner.
func NewOwner(kind AnchorKind, id *uuid.UUID) (Owner, error) {
	if kind == AnchorUnknown {
		return nil, nil
	}
	if id == nil {
		return nil, fmt.Errorf("owner %s: %w", kind, NewValidationError("anchor_id", "required"))
	}
	switch kind {
	case AnchorHeadword:
		return HeadwordRef{EntryID: *id}, nil
	case AnchorAlternateHeadword:
		return AlternateHeadwordRef{AlternateHeadwordID: *id}, nil
	case AnchorDefinedRunOn:
		return DefinedRunOnRef{DefinedRunOnID: *id}, nil
	case AnchorUndefinedRunOn:
		return UndefinedRunOnRef{UndefinedRunOnID: *id}, nil
	case AnchorVariant:
		return VariantRef{VariantID: *id}, nil
	case AnchorInflection:
		return InflectionRef{InflectionID: *id}, nil
	}
	return nil, NewValidationError("anchor_kind", fmt.Sprintf("unknown kind %q", kind))
}

// OwnerKind returns the anchor kind of o, AnchorUnknown for nil.
func OwnerKind(o Owner) AnchorKind {
	if o == nil {
		return AnchorUnknown
	}
	return o.Kind()
}

// OwnerID returns the id of o, nil for an unknown anchor.
func OwnerID(o Owner) *uuid.UUID {
	if o == nil {
		return nil
	}
	id := o.ID()
	return &id
}
