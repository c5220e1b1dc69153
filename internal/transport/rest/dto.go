package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/service/lookup"
)

type lookupRequest struct {
	Word string `json:"word"`
}

type lookupResponse struct {
	Kind        string         `json:"kind"`
	Key         string         `json:"key"`
	Reason      string         `json:"reason,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Unit        *unitResponse  `json:"unit,omitempty"`
	Candidates  []unitResponse `json:"candidates,omitempty"`
	GroupID     *string        `json:"groupId,omitempty"`
	EntryIDs    []string       `json:"entryIds,omitempty"`
	Created     bool           `json:"created"`
}

type unitResponse struct {
	ID                    string    `json:"id"`
	Label                 string    `json:"label"`
	Stem                  string    `json:"stem"`
	StemNorm              string    `json:"stemNorm"`
	Headword              *string   `json:"headword,omitempty"`
	GroupID               string    `json:"groupId"`
	Fingerprint           string    `json:"fingerprint"`
	RepresentativeEntryID string    `json:"representativeEntryId"`
	MatchMethod           string    `json:"matchMethod"`
	Fallback              bool      `json:"fallback"`
	CreatedAt             time.Time `json:"createdAt"`
}

type unitDetailResponse struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	MatchMethod string        `json:"matchMethod"`
	GroupID     string        `json:"groupId"`
	CreatedAt   time.Time     `json:"createdAt"`
	Stem        stemResponse  `json:"stem"`
	Entry       entryResponse `json:"entry"`
}

type stemResponse struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	Norm            string  `json:"norm"`
	Rank            int     `json:"rank"`
	AnchorKind      string  `json:"anchorKind"`
	AnchorID        *string `json:"anchorId,omitempty"`
	FallbackWarning bool    `json:"fallbackWarning"`
}

type entryResponse struct {
	ID                 string                  `json:"id"`
	MetaID             *string                 `json:"metaId,omitempty"`
	Headword           *string                 `json:"headword,omitempty"`
	AlternateHeadwords []rankedText            `json:"alternateHeadwords"`
	DefinedRunOns      []rankedText            `json:"definedRunOns"`
	UndefinedRunOns    []undefinedRunOnResp    `json:"undefinedRunOns"`
	Variants           []variantResponse       `json:"variants"`
	Inflections        []inflectionResponse    `json:"inflections"`
	Pronunciations     []pronunciationResponse `json:"pronunciations"`
	Stems              []stemResponse          `json:"stems"`
	Senses             []senseResponse         `json:"senses"`
	FetchedAt          time.Time               `json:"fetchedAt"`
}

type rankedText struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Rank int    `json:"rank"`
}

type undefinedRunOnResp struct {
	ID              string `json:"id"`
	Word            string `json:"word"`
	FunctionalLabel string `json:"functionalLabel"`
	Rank            int    `json:"rank"`
}

type scopeResponse struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

type variantResponse struct {
	ID    string        `json:"id"`
	Text  string        `json:"text"`
	Label *string       `json:"label,omitempty"`
	Scope scopeResponse `json:"scope"`
	Rank  int           `json:"rank"`
}

type inflectionResponse struct {
	ID      string        `json:"id"`
	Form    *string       `json:"form,omitempty"`
	Cutback *string       `json:"cutback,omitempty"`
	Label   *string       `json:"label,omitempty"`
	Scope   scopeResponse `json:"scope"`
	Rank    int           `json:"rank"`
}

type pronunciationResponse struct {
	ID          string  `json:"id"`
	OwnerKind   string  `json:"ownerKind"`
	OwnerID     *string `json:"ownerId,omitempty"`
	Written     *string `json:"written,omitempty"`
	LabelBefore *string `json:"labelBefore,omitempty"`
	LabelAfter  *string `json:"labelAfter,omitempty"`
	Punctuation *string `json:"punctuation,omitempty"`
	AudioURL    *string `json:"audioUrl,omitempty"`
	Rank        int     `json:"rank"`
}

type senseResponse struct {
	ID          string           `json:"id"`
	ScopeKind   string           `json:"scopeKind"`
	ScopeID     string           `json:"scopeId"`
	Kind        string           `json:"kind"`
	Number      *string          `json:"number,omitempty"`
	VerbDivider *string          `json:"verbDivider,omitempty"`
	Depth       int              `json:"depth"`
	Rank        int              `json:"rank"`
	ContainerID *string          `json:"containerId,omitempty"`
	Details     []detailResponse `json:"details"`
}

type detailResponse struct {
	Type    string               `json:"type"`
	Rank    int                  `json:"rank"`
	Payload domain.DetailPayload `json:"payload,omitempty"`
}

type addVocabRequest struct {
	UnitID uuid.UUID `json:"unitId"`
}

type addVocabResponse struct {
	UnitID string `json:"unitId"`
	Added  bool   `json:"added"`
}

type reviewRequest struct {
	Remembered *bool `json:"remembered"`
}

type vocabResponse struct {
	UnitID         string     `json:"unitId"`
	Progress       int        `json:"progress"`
	RecentMastery  *int       `json:"recentMastery,omitempty"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty"`
	NextReviewAt   *time.Time `json:"nextReviewAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type dueItemResponse struct {
	vocabResponse
	Label string `json:"label"`
}

type summaryResponse struct {
	Total             int     `json:"total"`
	AveragePercentage float64 `json:"averagePercentage"`
	DueCount          int     `json:"dueCount"`
}

type progressResponse struct {
	Date            string `json:"date"`
	VocabCount      int    `json:"vocabCount"`
	AverageProgress int    `json:"averageProgress"`
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func toLookupResponse(out *lookup.Outcome) lookupResponse {
	resp := lookupResponse{
		Kind:        out.Kind.String(),
		Key:         out.Key,
		Reason:      out.Reason,
		Suggestions: out.Suggestions,
		Created:     out.Created,
	}
	if out.Unit != nil {
		u := toUnitResponse(*out.Unit)
		resp.Unit = &u
	}
	for _, c := range out.Candidates {
		resp.Candidates = append(resp.Candidates, toUnitResponse(c))
	}
	if out.Group.ID != uuid.Nil {
		id := out.Group.ID.String()
		resp.GroupID = &id
	}
	for _, id := range out.EntryIDs() {
		resp.EntryIDs = append(resp.EntryIDs, id.String())
	}
	return resp
}

func toUnitResponse(s domain.UnitSummary) unitResponse {
	return unitResponse{
		ID:                    s.Unit.ID.String(),
		Label:                 s.Unit.Label,
		Stem:                  s.Stem,
		StemNorm:              s.StemNorm,
		Headword:              s.Headword,
		GroupID:               s.Unit.GroupID.String(),
		Fingerprint:           s.Fingerprint,
		RepresentativeEntryID: s.Unit.RepresentativeEntryID.String(),
		MatchMethod:           s.Unit.MatchMethod.String(),
		Fallback:              s.Unit.MatchMethod.IsFallback(),
		CreatedAt:             s.Unit.CreatedAt,
	}
}

func toUnitDetailResponse(d *domain.UnitDetail) unitDetailResponse {
	return unitDetailResponse{
		ID:          d.Unit.ID.String(),
		Label:       d.Unit.Label,
		MatchMethod: d.Unit.MatchMethod.String(),
		GroupID:     d.Unit.GroupID.String(),
		CreatedAt:   d.Unit.CreatedAt,
		Stem:        toStemResponse(d.Stem),
		Entry:       toEntryResponse(d.Graph),
	}
}

func toStemResponse(s domain.Stem) stemResponse {
	return stemResponse{
		ID:              s.ID.String(),
		Text:            s.Text,
		Norm:            s.Norm,
		Rank:            s.Rank,
		AnchorKind:      domain.OwnerKind(s.Anchor).String(),
		AnchorID:        uuidString(domain.OwnerID(s.Anchor)),
		FallbackWarning: s.FallbackWarning,
	}
}

func toEntryResponse(g *domain.EntryGraph) entryResponse {
	resp := entryResponse{
		ID:                 g.Entry.ID.String(),
		MetaID:             g.Entry.MetaID,
		AlternateHeadwords: make([]rankedText, 0, len(g.AlternateHeadwords)),
		DefinedRunOns:      make([]rankedText, 0, len(g.DefinedRunOns)),
		UndefinedRunOns:    make([]undefinedRunOnResp, 0, len(g.UndefinedRunOns)),
		Variants:           make([]variantResponse, 0, len(g.Variants)),
		Inflections:        make([]inflectionResponse, 0, len(g.Inflections)),
		Pronunciations:     make([]pronunciationResponse, 0, len(g.Pronunciations)),
		Stems:              make([]stemResponse, 0, len(g.Stems)),
		Senses:             make([]senseResponse, 0, len(g.Senses)),
		FetchedAt:          g.Entry.FetchedAt,
	}
	if g.Headword != nil {
		resp.Headword = &g.Headword.Text
	}
	for _, a := range g.AlternateHeadwords {
		resp.AlternateHeadwords = append(resp.AlternateHeadwords, rankedText{ID: a.ID.String(), Text: a.Text, Rank: a.Rank})
	}
	for _, d := range g.DefinedRunOns {
		resp.DefinedRunOns = append(resp.DefinedRunOns, rankedText{ID: d.ID.String(), Text: d.Phrase, Rank: d.Rank})
	}
	for _, u := range g.UndefinedRunOns {
		resp.UndefinedRunOns = append(resp.UndefinedRunOns, undefinedRunOnResp{
			ID:              u.ID.String(),
			Word:            u.Word,
			FunctionalLabel: u.FunctionalLabel,
			Rank:            u.Rank,
		})
	}
	for _, v := range g.Variants {
		resp.Variants = append(resp.Variants, variantResponse{
			ID:    v.ID.String(),
			Text:  v.Text,
			Label: v.Label,
			Scope: scopeResponse{Kind: v.Scope.Kind.String(), Ref: v.Scope.Ref},
			Rank:  v.Rank,
		})
	}
	for _, in := range g.Inflections {
		resp.Inflections = append(resp.Inflections, inflectionResponse{
			ID:      in.ID.String(),
			Form:    in.Form,
			Cutback: in.Cutback,
			Label:   in.Label,
			Scope:   scopeResponse{Kind: in.Scope.Kind.String(), Ref: in.Scope.Ref},
			Rank:    in.Rank,
		})
	}
	for _, p := range g.Pronunciations {
		resp.Pronunciations = append(resp.Pronunciations, pronunciationResponse{
			ID:          p.ID.String(),
			OwnerKind:   domain.OwnerKind(p.Owner).String(),
			OwnerID:     uuidString(domain.OwnerID(p.Owner)),
			Written:     p.Written,
			LabelBefore: p.LabelBefore,
			LabelAfter:  p.LabelAfter,
			Punctuation: p.Punctuation,
			AudioURL:    p.AudioURL(),
			Rank:        p.Rank,
		})
	}
	for _, s := range g.Stems {
		resp.Stems = append(resp.Stems, toStemResponse(s))
	}

	details := make(map[uuid.UUID][]detailResponse, len(g.Senses))
	for _, d := range g.SenseDetails {
		details[d.SenseID] = append(details[d.SenseID], detailResponse{Type: d.Type, Rank: d.Rank, Payload: d.Payload})
	}
	for _, s := range g.Senses {
		ds := details[s.ID]
		if ds == nil {
			ds = []detailResponse{}
		}
		resp.Senses = append(resp.Senses, senseResponse{
			ID:          s.ID.String(),
			ScopeKind:   s.Scope.Kind.String(),
			ScopeID:     s.Scope.ID.String(),
			Kind:        s.Kind.String(),
			Number:      s.Number,
			VerbDivider: s.VerbDivider,
			Depth:       s.Depth,
			Rank:        s.Rank,
			ContainerID: uuidString(s.ContainerID),
			Details:     ds,
		})
	}
	return resp
}

func toVocabResponse(v domain.UserVocab) vocabResponse {
	return vocabResponse{
		UnitID:         v.UnitID.String(),
		Progress:       v.Progress,
		RecentMastery:  v.RecentMastery,
		LastReviewedAt: v.LastReviewedAt,
		NextReviewAt:   v.NextReviewAt,
		CreatedAt:      v.CreatedAt,
	}
}

func toProgressResponse(p domain.ProgressRecord) progressResponse {
	return progressResponse{
		Date:            p.Date.Format(time.DateOnly),
		VocabCount:      p.VocabCount,
		AverageProgress: p.AverageProgress,
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
