package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SenseKind is the tag of a node in a sense sequence.
type SenseKind string

const (
	SenseKindSense   SenseKind = "sense"
	SenseKindSen     SenseKind = "sen"
	SenseKindBinding SenseKind = "bs"
	SenseKindPseq    SenseKind = "pseq"
)

func (k SenseKind) String() string { return string(k) }

func (k SenseKind) IsValid() bool {
	switch k {
	case SenseKindSense, SenseKindSen, SenseKindBinding, SenseKindPseq:
		return true
	}
	return false
}

// SenseScope owns a slice of the sense graph: the entry itself (ID is the
// entry id) or one defined run-on (ID is the run-on id).
type SenseScope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

// Sense is one node of a flattened definition tree. Rank is unique and
// gap-free within the scope, in document order. Children of a pseq
// container point at it through ContainerID.
type Sense struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	Scope       SenseScope
	VerbDivider *string
	Kind        SenseKind
	Number      *string
	Depth       int
	Rank        int
	ContainerID *uuid.UUID
}

// Detail types with a structured payload.
const (
	DetailText       = "text"
	DetailExamples   = "vis"
	DetailCalledAlso = "ca"
	DetailUsageNotes = "uns"
)

// SenseDetail is one ranked item of a sense's detail list. Type is kept as
// given by the source, including types without a structured payload.
type SenseDetail struct {
	ID      uuid.UUID
	SenseID uuid.UUID
	Type    string
	Rank    int
	Payload DetailPayload
}

// DetailPayload is the typed content of a sense detail. The set of
// implementations is closed.
type DetailPayload interface {
	isDetailPayload()
}

type TextDetail struct {
	Text string `json:"text"`
}

type ExamplesDetail struct {
	Examples []Example `json:"examples"`
}

type Example struct {
	Text        string       `json:"t"`
	Attribution *Attribution `json:"aq"`
}

type Attribution struct {
	Author *string `json:"auth"`
	Source *string `json:"source"`
	Date   *string `json:"aqdate"`
}

// CalledAlsoDetail is a "called also" note with its category references.
type CalledAlsoDetail struct {
	Intro      *string    `json:"intro"`
	Categories []Category `json:"cats"`
}

type Category struct {
	Text      string  `json:"cat"`
	Reference *string `json:"catref"`
	Number    *string `json:"pn"`
}

type UsageNotesDetail struct {
	Items []UsageNoteItem `json:"items"`
}

// UsageNoteItem is one element of a usage note block. Kind is the source
// item type; Text is set for "text" items and Examples for "vis" items.
type UsageNoteItem struct {
	Kind     string        `json:"kind"`
	Text     *string       `json:"text,omitempty"`
	Examples []NoteExample `json:"examples,omitempty"`
}

type NoteExample struct {
	Text string `json:"t"`
}

// OpaqueDetail holds a detail of an unrecognized type. Text is the plain
// rendering of a string payload, nil otherwise.
type OpaqueDetail struct {
	Text *string `json:"text"`
}

func (TextDetail) isDetailPayload()       {}
func (ExamplesDetail) isDetailPayload()   {}
func (CalledAlsoDetail) isDetailPayload() {}
func (UsageNotesDetail) isDetailPayload() {}
func (OpaqueDetail) isDetailPayload()     {}

// DecodeDetailPayload restores a payload stored as JSON under its detail type.
func DecodeDetailPayload(detailType string, data []byte) (DetailPayload, error) {
	var (
		p   DetailPayload
		err error
	)
	switch detailType {
	case DetailText:
		var v TextDetail
		err = json.Unmarshal(data, &v)
		p = v
	case DetailExamples:
		var v ExamplesDetail
		err = json.Unmarshal(data, &v)
		p = v
	case DetailCalledAlso:
		var v CalledAlsoDetail
		err = json.Unmarshal(data, &v)
		p = v
	case DetailUsageNotes:
		var v UsageNotesDetail
		err = json.Unmarshal(data, &v)
		p = v
	default:
		var v OpaqueDetail
		err = json.Unmarshal(data, &v)
		p = v
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s detail: %w", detailType, err)
	}
	return p, nil
}
