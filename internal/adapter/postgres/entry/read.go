package entry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Row types
// ---------------------------------------------------------------------------

type entryRow struct {
	ID          uuid.UUID       `db:"id"`
	MetaID      *string         `db:"meta_id"`
	HeadwordRaw *string         `db:"headword_raw"`
	Stems       []string        `db:"stems"`
	Raw         json.RawMessage `db:"raw"`
	FetchedAt   time.Time       `db:"fetched_at"`
}

type stemRow struct {
	ID              uuid.UUID  `db:"id"`
	EntryID         uuid.UUID  `db:"entry_id"`
	Text            string     `db:"text"`
	Norm            string     `db:"norm"`
	AnchorKind      string     `db:"anchor_kind"`
	AnchorID        *uuid.UUID `db:"anchor_id"`
	FallbackWarning bool       `db:"fallback_warning"`
	Rank            int        `db:"rank"`
	FetchedAt       time.Time  `db:"fetched_at"`
}

type pronunciationRow struct {
	ID          uuid.UUID `db:"id"`
	EntryID     uuid.UUID `db:"entry_id"`
	OwnerKind   string    `db:"owner_kind"`
	OwnerID     uuid.UUID `db:"owner_id"`
	Written     *string   `db:"written"`
	Punctuation *string   `db:"punctuation"`
	LabelBefore *string   `db:"label_before"`
	LabelAfter  *string   `db:"label_after"`
	Audio       *string   `db:"audio"`
	AudioRef    *string   `db:"audio_ref"`
	AudioStat   *string   `db:"audio_stat"`
	Rank        int       `db:"rank"`
}

type scopedRow struct {
	ID        uuid.UUID `db:"id"`
	EntryID   uuid.UUID `db:"entry_id"`
	Text      *string   `db:"text"`
	Form      *string   `db:"form"`
	Cutback   *string   `db:"cutback"`
	Label     *string   `db:"label"`
	ScopeKind string    `db:"scope_kind"`
	ScopeRef  string    `db:"scope_ref"`
	Rank      int       `db:"rank"`
}

type senseRow struct {
	ID          uuid.UUID  `db:"id"`
	EntryID     uuid.UUID  `db:"entry_id"`
	ScopeKind   string     `db:"scope_kind"`
	ScopeID     uuid.UUID  `db:"scope_id"`
	VerbDivider *string    `db:"verb_divider"`
	Kind        string     `db:"kind"`
	Number      *string    `db:"number"`
	Depth       int        `db:"depth"`
	Rank        int        `db:"rank"`
	ContainerID *uuid.UUID `db:"container_id"`
}

type detailRow struct {
	ID      uuid.UUID       `db:"id"`
	SenseID uuid.UUID       `db:"sense_id"`
	Type    string          `db:"type"`
	Rank    int             `db:"rank"`
	Payload json.RawMessage `db:"payload"`
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetEntry returns the stored entry document. Returns domain.ErrNotFound if
// it does not exist.
func (r *Repo) GetEntry(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row entryRow
	err := pgxscan.Get(ctx, q, &row,
		`SELECT id, meta_id, headword_raw, stems, raw, fetched_at FROM dictionary_entries WHERE id = $1`, id)
	if err != nil {
		return nil, postgres.MapError(err, "dictionary_entry", id)
	}

	e := toDomainEntry(row)
	return &e, nil
}

// ListIDs returns up to limit entry ids greater than after, in id order.
// Pass uuid.Nil to start from the beginning.
func (r *Repo) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var ids []uuid.UUID
	err := pgxscan.Select(ctx, q, &ids,
		`SELECT id FROM dictionary_entries WHERE id > $1 ORDER BY id LIMIT $2`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("list entry ids: %w", err)
	}
	return ids, nil
}

// GetStemByRank returns the persisted stem of an entry at rank.
func (r *Repo) GetStemByRank(ctx context.Context, entryID uuid.UUID, rank int) (*domain.Stem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row stemRow
	err := pgxscan.Get(ctx, q, &row, `
		SELECT id, entry_id, text, norm, anchor_kind, anchor_id, fallback_warning, rank, fetched_at
		FROM entry_stems WHERE entry_id = $1 AND rank = $2`, entryID, rank)
	if err != nil {
		return nil, postgres.MapError(err, "entry_stem", fmt.Sprintf("%s#%d", entryID, rank))
	}

	s, err := toDomainStem(row)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStem returns a stem by id.
func (r *Repo) GetStem(ctx context.Context, id uuid.UUID) (*domain.Stem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var row stemRow
	err := pgxscan.Get(ctx, q, &row, `
		SELECT id, entry_id, text, norm, anchor_kind, anchor_id, fallback_warning, rank, fetched_at
		FROM entry_stems WHERE id = $1`, id)
	if err != nil {
		return nil, postgres.MapError(err, "entry_stem", id)
	}

	s, err := toDomainStem(row)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetGraph loads an entry with its whole derived graph.
// Returns domain.ErrNotFound if the entry does not exist.
func (r *Repo) GetGraph(ctx context.Context, id uuid.UUID) (*domain.EntryGraph, error) {
	e, err := r.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	g := &domain.EntryGraph{Entry: *e}

	var headwords []string
	if err := pgxscan.Select(ctx, q, &headwords,
		`SELECT text FROM entry_headwords WHERE entry_id = $1`, id); err != nil {
		return nil, fmt.Errorf("load headword: %w", err)
	}
	if len(headwords) > 0 {
		g.Headword = &domain.Headword{EntryID: id, Text: headwords[0]}
	}

	if err := pgxscan.Select(ctx, q, &g.AlternateHeadwords, `
		SELECT id, entry_id, text, rank FROM entry_alternate_headwords
		WHERE entry_id = $1 ORDER BY rank`, id); err != nil {
		return nil, fmt.Errorf("load alternate headwords: %w", err)
	}

	if err := pgxscan.Select(ctx, q, &g.DefinedRunOns, `
		SELECT id, entry_id, phrase, definition, rank FROM entry_defined_run_ons
		WHERE entry_id = $1 ORDER BY rank`, id); err != nil {
		return nil, fmt.Errorf("load defined run-ons: %w", err)
	}

	if err := pgxscan.Select(ctx, q, &g.UndefinedRunOns, `
		SELECT id, entry_id, word, functional_label, text, raw, rank FROM entry_undefined_run_ons
		WHERE entry_id = $1 ORDER BY rank`, id); err != nil {
		return nil, fmt.Errorf("load undefined run-ons: %w", err)
	}

	if err := r.loadScoped(ctx, q, g); err != nil {
		return nil, err
	}
	if err := r.loadPronunciations(ctx, q, g); err != nil {
		return nil, err
	}
	if err := r.loadStems(ctx, q, g); err != nil {
		return nil, err
	}
	if err := r.loadSenses(ctx, q, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (r *Repo) loadScoped(ctx context.Context, q postgres.Querier, g *domain.EntryGraph) error {
	var vrs []scopedRow
	if err := pgxscan.Select(ctx, q, &vrs, `
		SELECT id, entry_id, text, NULL::text AS form, NULL::text AS cutback, label, scope_kind, scope_ref, rank
		FROM entry_variants WHERE entry_id = $1 ORDER BY scope_ref, rank`, g.Entry.ID); err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	for _, row := range vrs {
		g.Variants = append(g.Variants, domain.Variant{
			ID:      row.ID,
			EntryID: row.EntryID,
			Text:    deref(row.Text),
			Label:   row.Label,
			Scope:   domain.Scope{Kind: domain.ScopeKind(row.ScopeKind), Ref: row.ScopeRef},
			Rank:    row.Rank,
		})
	}

	var ins []scopedRow
	if err := pgxscan.Select(ctx, q, &ins, `
		SELECT id, entry_id, NULL::text AS text, form, cutback, label, scope_kind, scope_ref, rank
		FROM entry_inflections WHERE entry_id = $1 ORDER BY scope_ref, rank`, g.Entry.ID); err != nil {
		return fmt.Errorf("load inflections: %w", err)
	}
	for _, row := range ins {
		g.Inflections = append(g.Inflections, domain.Inflection{
			ID:      row.ID,
			EntryID: row.EntryID,
			Form:    row.Form,
			Cutback: row.Cutback,
			Label:   row.Label,
			Scope:   domain.Scope{Kind: domain.ScopeKind(row.ScopeKind), Ref: row.ScopeRef},
			Rank:    row.Rank,
		})
	}
	return nil
}

func (r *Repo) loadPronunciations(ctx context.Context, q postgres.Querier, g *domain.EntryGraph) error {
	var rows []pronunciationRow
	if err := pgxscan.Select(ctx, q, &rows, `
		SELECT id, entry_id, owner_kind, owner_id, written, punctuation, label_before, label_after,
		       audio, audio_ref, audio_stat, rank
		FROM entry_pronunciations WHERE entry_id = $1 ORDER BY owner_kind, owner_id, rank`, g.Entry.ID); err != nil {
		return fmt.Errorf("load pronunciations: %w", err)
	}

	for _, row := range rows {
		ownerID := row.OwnerID
		owner, err := domain.NewOwner(domain.AnchorKind(row.OwnerKind), &ownerID)
		if err != nil {
			return fmt.Errorf("pronunciation %s: %w", row.ID, err)
		}
		g.Pronunciations = append(g.Pronunciations, domain.Pronunciation{
			ID:          row.ID,
			EntryID:     row.EntryID,
			Owner:       owner,
			Written:     row.Written,
			Punctuation: row.Punctuation,
			LabelBefore: row.LabelBefore,
			LabelAfter:  row.LabelAfter,
			Audio:       row.Audio,
			AudioRef:    row.AudioRef,
			AudioStat:   row.AudioStat,
			Rank:        row.Rank,
		})
	}
	return nil
}

func (r *Repo) loadStems(ctx context.Context, q postgres.Querier, g *domain.EntryGraph) error {
	var rows []stemRow
	if err := pgxscan.Select(ctx, q, &rows, `
		SELECT id, entry_id, text, norm, anchor_kind, anchor_id, fallback_warning, rank, fetched_at
		FROM entry_stems WHERE entry_id = $1 ORDER BY rank`, g.Entry.ID); err != nil {
		return fmt.Errorf("load stems: %w", err)
	}

	for _, row := range rows {
		s, err := toDomainStem(row)
		if err != nil {
			return err
		}
		g.Stems = append(g.Stems, s)
	}
	return nil
}

// loadSenses returns entry-scoped senses first, then each defined run-on's
// senses in run-on order.
func (r *Repo) loadSenses(ctx context.Context, q postgres.Querier, g *domain.EntryGraph) error {
	var rows []senseRow
	if err := pgxscan.Select(ctx, q, &rows, `
		SELECT s.id, s.entry_id, s.scope_kind, s.scope_id, s.verb_divider, s.kind, s.number,
		       s.depth, s.rank, s.container_id
		FROM entry_senses s
		LEFT JOIN entry_defined_run_ons d ON d.id = s.scope_id
		WHERE s.entry_id = $1
		ORDER BY COALESCE(d.rank, -1), s.rank`, g.Entry.ID); err != nil {
		return fmt.Errorf("load senses: %w", err)
	}

	order := make(map[uuid.UUID]int, len(rows))
	for i, row := range rows {
		order[row.ID] = i
		g.Senses = append(g.Senses, domain.Sense{
			ID:          row.ID,
			EntryID:     row.EntryID,
			Scope:       domain.SenseScope{Kind: domain.ScopeKind(row.ScopeKind), ID: row.ScopeID},
			VerbDivider: row.VerbDivider,
			Kind:        domain.SenseKind(row.Kind),
			Number:      row.Number,
			Depth:       row.Depth,
			Rank:        row.Rank,
			ContainerID: row.ContainerID,
		})
	}

	var details []detailRow
	if err := pgxscan.Select(ctx, q, &details, `
		SELECT d.id, d.sense_id, d.type, d.rank, d.payload
		FROM entry_sense_details d
		JOIN entry_senses s ON s.id = d.sense_id
		WHERE s.entry_id = $1`, g.Entry.ID); err != nil {
		return fmt.Errorf("load sense details: %w", err)
	}

	sortDetails(details, order)

	for _, row := range details {
		var payload domain.DetailPayload
		if len(row.Payload) > 0 {
			p, err := domain.DecodeDetailPayload(row.Type, row.Payload)
			if err != nil {
				return fmt.Errorf("sense detail %s: %w", row.ID, err)
			}
			payload = p
		}
		g.SenseDetails = append(g.SenseDetails, domain.SenseDetail{
			ID:      row.ID,
			SenseID: row.SenseID,
			Type:    row.Type,
			Rank:    row.Rank,
			Payload: payload,
		})
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func toDomainEntry(row entryRow) domain.Entry {
	return domain.Entry{
		ID:          row.ID,
		MetaID:      row.MetaID,
		HeadwordRaw: row.HeadwordRaw,
		Stems:       row.Stems,
		Raw:         row.Raw,
		FetchedAt:   row.FetchedAt,
	}
}

func toDomainStem(row stemRow) (domain.Stem, error) {
	anchor, err := domain.NewOwner(domain.AnchorKind(row.AnchorKind), row.AnchorID)
	if err != nil {
		return domain.Stem{}, fmt.Errorf("stem %s: %w", row.ID, err)
	}
	return domain.Stem{
		ID:              row.ID,
		EntryID:         row.EntryID,
		Text:            row.Text,
		Norm:            row.Norm,
		Anchor:          anchor,
		FallbackWarning: row.FallbackWarning,
		Rank:            row.Rank,
		FetchedAt:       row.FetchedAt,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
