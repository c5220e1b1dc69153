package group_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/group"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

func TestEnsure_ConcurrentCreatorsConverge(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := group.New(pool)
	txm := postgres.NewTxManager(pool)

	fingerprint := "race-" + uuid.NewString()
	const workers = 8

	ids := make([]uuid.UUID, workers)
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			return txm.RunInTx(context.Background(), func(ctx context.Context) error {
				g, err := repo.Ensure(ctx, domain.LexicalGroup{
					ID:          uuid.New(),
					Fingerprint: fingerprint,
					CreatedAt:   time.Now(),
				})
				if err != nil {
					return err
				}
				ids[i] = g.ID
				return nil
			})
		})
	}
	require.NoError(t, eg.Wait())

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}

	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT count(*) FROM lexical_groups WHERE fingerprint = $1`, fingerprint).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestLinkEntries_Idempotent(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := group.New(pool)
	ctx := context.Background()

	e1 := testhelper.SeedEntry(t, pool, "link-"+uuid.NewString()[:8])
	e2 := testhelper.SeedEntry(t, pool, "link-"+uuid.NewString()[:8])

	g, err := repo.Ensure(ctx, domain.LexicalGroup{ID: uuid.New(), Fingerprint: uuid.NewString(), CreatedAt: time.Now()})
	require.NoError(t, err)

	entries := []uuid.UUID{e1.Entry.ID, e2.Entry.ID}
	require.NoError(t, repo.LinkEntries(ctx, g.ID, entries))
	require.NoError(t, repo.LinkEntries(ctx, g.ID, entries))

	got, err := repo.ListEntryIDs(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
