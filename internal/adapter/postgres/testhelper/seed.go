package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/entry"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/lexicon"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// EntryJSON builds a minimal dictionary entry document with a headword, the
// given stems and one entry-level sense.
func EntryJSON(t *testing.T, id uuid.UUID, headword string, stems ...string) []byte {
	t.Helper()

	doc := map[string]any{
		"meta": map[string]any{"id": headword, "uuid": id.String(), "stems": stems},
		"hwi":  map[string]any{"hw": headword, "prs": []any{map[string]any{"mw": "x", "sound": map[string]any{"audio": "test0001"}}}},
		"fl":   "noun",
		"def": []any{map[string]any{"sseq": []any{[]any{[]any{"sense", map[string]any{
			"sn": "1",
			"dt": []any{[]any{"text", "{bc}a test definition"}},
		}}}}}},
	}
	b, err := json.Marshal([]any{doc})
	if err != nil {
		t.Fatalf("testhelper: EntryJSON marshal: %v", err)
	}
	return b
}

// SeedGraph parses raw (a dictionary response array), derives the graph of
// every entry and saves it. Returns the saved graphs in response order.
func SeedGraph(t *testing.T, pool *pgxpool.Pool, raw []byte) []*domain.EntryGraph {
	t.Helper()
	ctx := context.Background()

	docs, err := lexicon.ParseEntries(raw, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		t.Fatalf("testhelper: SeedGraph parse: %v", err)
	}

	repo := entry.New(pool, postgres.NewTxManager(pool))
	graphs := make([]*domain.EntryGraph, 0, len(docs))
	for _, doc := range docs {
		g := lexicon.Derive(doc)
		if err := repo.SaveGraph(ctx, g); err != nil {
			t.Fatalf("testhelper: SeedGraph save %s: %v", g.Entry.ID, err)
		}
		graphs = append(graphs, g)
	}
	return graphs
}

// SeedEntry saves a minimal entry with one stem equal to its headword and
// returns its graph.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, headword string) *domain.EntryGraph {
	t.Helper()
	return SeedGraph(t, pool, EntryJSON(t, uuid.New(), headword, headword))[0]
}

// SeedUnit creates a lexical group for g and a learning unit on its first
// stem. The label gets a unique suffix.
func SeedUnit(t *testing.T, pool *pgxpool.Pool, g *domain.EntryGraph) domain.LearningUnit {
	t.Helper()
	ctx := context.Background()

	if len(g.Stems) == 0 {
		t.Fatal("testhelper: SeedUnit: entry has no stems")
	}

	groupID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO lexical_groups (id, fingerprint) VALUES ($1, $2)`,
		groupID, lexicon.Fingerprint([]uuid.UUID{g.Entry.ID})+"-"+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUnit insert group: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO lexical_group_entries (group_id, entry_id, rank) VALUES ($1, $2, 0)`,
		groupID, g.Entry.ID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUnit insert group entry: %v", err)
	}

	unit := domain.LearningUnit{
		ID:                    uuid.New(),
		Label:                 g.Stems[0].Text,
		StemID:                g.Stems[0].ID,
		GroupID:               groupID,
		RepresentativeEntryID: g.Entry.ID,
		MatchMethod:           domain.MatchStem,
		CreatedFromLookupKey:  g.Stems[0].Norm,
		CreatedAt:             time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO learning_units (id, label, stem_id, group_id, representative_entry_id, match_method, created_from_lookup_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		unit.ID, unit.Label, unit.StemID, unit.GroupID, unit.RepresentativeEntryID,
		string(unit.MatchMethod), unit.CreatedFromLookupKey, unit.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUnit insert unit: %v", err)
	}

	return unit
}
