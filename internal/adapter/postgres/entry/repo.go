// Package entry stores dictionary entries together with their derived
// semantic graph: headwords, run-ons, variants, inflections, pronunciations,
// stems, senses and sense details.
//
// Derived rows are replaced wholesale on every save. Stems are the exception:
// they are upserted by (entry, rank) so that learning units referencing a stem
// keep a valid reference across re-derivation.
package entry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

// insertChunk bounds the rows of one multi-row INSERT so that the statement
// stays far below the 65535 bind parameter limit.
const insertChunk = 500

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.Querier
	txm *postgres.TxManager
}

// New creates a new entry repository.
func New(db postgres.Querier, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// SaveGraph stores the entry row and replaces its derived graph under a
// per-entry advisory lock. It joins the caller's transaction when there is
// one. On return g.Stems carry their persisted ids.
func (r *Repo) SaveGraph(ctx context.Context, g *domain.EntryGraph) error {
	id := g.Entry.ID

	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		if err := postgres.AdvisoryXactLock(ctx, r.db, "entry:"+id.String()); err != nil {
			return err
		}

		q := postgres.QuerierFromCtx(ctx, r.db)

		if err := upsertEntry(ctx, q, g.Entry); err != nil {
			return err
		}
		if err := deleteDerived(ctx, q, id); err != nil {
			return err
		}
		if err := insertDerived(ctx, q, g); err != nil {
			return err
		}
		if err := upsertStems(ctx, q, id, g.Stems); err != nil {
			return err
		}
		return deleteStaleStems(ctx, q, id, g.Stems)
	})
}

func upsertEntry(ctx context.Context, q postgres.Querier, e domain.Entry) error {
	stems := e.Stems
	if stems == nil {
		stems = []string{}
	}

	sql, args, err := psql.Insert("dictionary_entries").
		Columns("id", "meta_id", "headword_raw", "stems", "raw", "fetched_at").
		Values(e.ID, e.MetaID, e.HeadwordRaw, stems, e.Raw, e.FetchedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			meta_id = EXCLUDED.meta_id,
			headword_raw = EXCLUDED.headword_raw,
			stems = EXCLUDED.stems,
			raw = EXCLUDED.raw,
			fetched_at = EXCLUDED.fetched_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert entry: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "dictionary_entry", e.ID)
	}
	return nil
}

// derivedTables lists the wholly replaced tables in delete order. Sense
// details go with their senses.
var derivedTables = []string{
	"entry_senses",
	"entry_pronunciations",
	"entry_inflections",
	"entry_variants",
	"entry_undefined_run_ons",
	"entry_defined_run_ons",
	"entry_alternate_headwords",
	"entry_headwords",
}

func deleteDerived(ctx context.Context, q postgres.Querier, entryID uuid.UUID) error {
	for _, table := range derivedTables {
		if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE entry_id = $1", entryID); err != nil {
			return postgres.MapError(err, table, entryID)
		}
	}
	return nil
}

func insertDerived(ctx context.Context, q postgres.Querier, g *domain.EntryGraph) error {
	id := g.Entry.ID

	if g.Headword != nil {
		if _, err := q.Exec(ctx,
			`INSERT INTO entry_headwords (entry_id, text) VALUES ($1, $2)`,
			id, g.Headword.Text,
		); err != nil {
			return postgres.MapError(err, "entry_headword", id)
		}
	}

	ahw := make([][]any, len(g.AlternateHeadwords))
	for i, a := range g.AlternateHeadwords {
		ahw[i] = []any{a.ID, id, a.Text, a.Rank}
	}
	if err := insertRows(ctx, q, id, "entry_alternate_headwords",
		[]string{"id", "entry_id", "text", "rank"}, ahw); err != nil {
		return err
	}

	dros := make([][]any, len(g.DefinedRunOns))
	for i, d := range g.DefinedRunOns {
		dros[i] = []any{d.ID, id, d.Phrase, d.Definition, d.Rank}
	}
	if err := insertRows(ctx, q, id, "entry_defined_run_ons",
		[]string{"id", "entry_id", "phrase", "definition", "rank"}, dros); err != nil {
		return err
	}

	uros := make([][]any, len(g.UndefinedRunOns))
	for i, u := range g.UndefinedRunOns {
		uros[i] = []any{u.ID, id, u.Word, u.FunctionalLabel, nullJSON(u.Text), u.Raw, u.Rank}
	}
	if err := insertRows(ctx, q, id, "entry_undefined_run_ons",
		[]string{"id", "entry_id", "word", "functional_label", "text", "raw", "rank"}, uros); err != nil {
		return err
	}

	vrs := make([][]any, len(g.Variants))
	for i, v := range g.Variants {
		vrs[i] = []any{v.ID, id, v.Text, v.Label, string(v.Scope.Kind), v.Scope.Ref, v.Rank}
	}
	if err := insertRows(ctx, q, id, "entry_variants",
		[]string{"id", "entry_id", "text", "label", "scope_kind", "scope_ref", "rank"}, vrs); err != nil {
		return err
	}

	ins := make([][]any, len(g.Inflections))
	for i, in := range g.Inflections {
		ins[i] = []any{in.ID, id, in.Form, in.Cutback, in.Label, string(in.Scope.Kind), in.Scope.Ref, in.Rank}
	}
	if err := insertRows(ctx, q, id, "entry_inflections",
		[]string{"id", "entry_id", "form", "cutback", "label", "scope_kind", "scope_ref", "rank"}, ins); err != nil {
		return err
	}

	prs := make([][]any, len(g.Pronunciations))
	for i, p := range g.Pronunciations {
		prs[i] = []any{
			p.ID, id, string(domain.OwnerKind(p.Owner)), p.Owner.ID(),
			p.Written, p.Punctuation, p.LabelBefore, p.LabelAfter,
			p.Audio, p.AudioRef, p.AudioStat, p.Rank,
		}
	}
	if err := insertRows(ctx, q, id, "entry_pronunciations",
		[]string{
			"id", "entry_id", "owner_kind", "owner_id",
			"written", "punctuation", "label_before", "label_after",
			"audio", "audio_ref", "audio_stat", "rank",
		}, prs); err != nil {
		return err
	}

	senses := make([][]any, len(g.Senses))
	for i, s := range g.Senses {
		senses[i] = []any{
			s.ID, id, string(s.Scope.Kind), s.Scope.ID, s.VerbDivider,
			string(s.Kind), s.Number, s.Depth, s.Rank, s.ContainerID,
		}
	}
	if err := insertRows(ctx, q, id, "entry_senses",
		[]string{"id", "entry_id", "scope_kind", "scope_id", "verb_divider", "kind", "number", "depth", "rank", "container_id"},
		senses); err != nil {
		return err
	}

	details := make([][]any, len(g.SenseDetails))
	for i, d := range g.SenseDetails {
		payload, err := marshalPayload(d.Payload)
		if err != nil {
			return fmt.Errorf("sense detail %s: %w", d.ID, err)
		}
		details[i] = []any{d.ID, d.SenseID, d.Type, d.Rank, payload}
	}
	return insertRows(ctx, q, id, "entry_sense_details",
		[]string{"id", "sense_id", "type", "rank", "payload"}, details)
}

func insertRows(ctx context.Context, q postgres.Querier, entryID uuid.UUID, table string, cols []string, rows [][]any) error {
	for start := 0; start < len(rows); start += insertChunk {
		end := min(start+insertChunk, len(rows))

		b := psql.Insert(table).Columns(cols...)
		for _, row := range rows[start:end] {
			b = b.Values(row...)
		}
		sql, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", table, err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return postgres.MapError(err, table, entryID)
		}
	}
	return nil
}

// upsertStems writes stems by (entry, rank). An existing row keeps its id;
// the ids actually stored are copied back into stems.
func upsertStems(ctx context.Context, q postgres.Querier, entryID uuid.UUID, stems []domain.Stem) error {
	if len(stems) == 0 {
		return nil
	}

	b := psql.Insert("entry_stems").
		Columns("id", "entry_id", "text", "norm", "anchor_kind", "anchor_id", "fallback_warning", "rank", "fetched_at")
	for _, s := range stems {
		b = b.Values(s.ID, entryID, s.Text, s.Norm, string(domain.OwnerKind(s.Anchor)), domain.OwnerID(s.Anchor),
			s.FallbackWarning, s.Rank, s.FetchedAt)
	}
	sql, args, err := b.Suffix(`ON CONFLICT (entry_id, rank) DO UPDATE SET
			text = EXCLUDED.text,
			norm = EXCLUDED.norm,
			anchor_kind = EXCLUDED.anchor_kind,
			anchor_id = EXCLUDED.anchor_id,
			fallback_warning = EXCLUDED.fallback_warning,
			fetched_at = EXCLUDED.fetched_at
		RETURNING id, rank`).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert stems: %w", err)
	}

	var stored []struct {
		ID   uuid.UUID `db:"id"`
		Rank int       `db:"rank"`
	}
	if err := pgxscan.Select(ctx, q, &stored, sql, args...); err != nil {
		return postgres.MapError(err, "entry_stem", entryID)
	}

	byRank := make(map[int]uuid.UUID, len(stored))
	for _, s := range stored {
		byRank[s.Rank] = s.ID
	}
	for i := range stems {
		if id, ok := byRank[stems[i].Rank]; ok {
			stems[i].ID = id
		}
	}
	return nil
}

// deleteStaleStems removes stems at ranks the entry no longer declares,
// except those a learning unit still points at.
func deleteStaleStems(ctx context.Context, q postgres.Querier, entryID uuid.UUID, stems []domain.Stem) error {
	ranks := make([]int32, len(stems))
	for i, s := range stems {
		ranks[i] = int32(s.Rank)
	}

	_, err := q.Exec(ctx, `
		DELETE FROM entry_stems s
		WHERE s.entry_id = $1
		  AND NOT (s.rank = ANY($2))
		  AND NOT EXISTS (SELECT 1 FROM learning_units u WHERE u.stem_id = s.id)`,
		entryID, ranks,
	)
	if err != nil {
		return postgres.MapError(err, "entry_stem", entryID)
	}
	return nil
}

func marshalPayload(p domain.DetailPayload) (any, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.RawMessage(b), nil
}

// nullJSON turns an empty document into SQL NULL.
func nullJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
