package unit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/unit"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
)

func TestFindByStemNorm(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := unit.New(pool)
	ctx := context.Background()

	word := "zephyr" + uuid.NewString()[:6]
	g := testhelper.SeedEntry(t, pool, word)
	u := testhelper.SeedUnit(t, pool, g)

	got, err := repo.FindByStemNorm(ctx, g.Stems[0].Norm)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u.ID, got[0].Unit.ID)
	assert.Equal(t, word, got[0].Stem)
	require.NotNil(t, got[0].Headword)
	assert.Equal(t, word, *got[0].Headword)

	none, err := repo.FindByStemNorm(ctx, "no-such-"+word)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsert_SameLabelInGroupIsCanonical(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := unit.New(pool)
	ctx := context.Background()

	g := testhelper.SeedEntry(t, pool, "quill"+uuid.NewString()[:6])
	first := testhelper.SeedUnit(t, pool, g)

	dup := first
	dup.ID = uuid.New()
	dup.MatchMethod = domain.MatchHeadword
	dup.CreatedAt = time.Now()

	got, created, err := repo.Insert(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, got.ID)

	fresh := first
	fresh.ID = uuid.New()
	fresh.Label = first.Label + " again"
	got, created, err = repo.Insert(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, fresh.ID, got.ID)
}

func TestGetByLabelAndFingerprint(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := unit.New(pool)
	ctx := context.Background()

	g := testhelper.SeedEntry(t, pool, "lantern"+uuid.NewString()[:6])
	u := testhelper.SeedUnit(t, pool, g)

	byID, err := repo.GetSummary(ctx, u.ID)
	require.NoError(t, err)

	got, err := repo.GetByLabelAndFingerprint(ctx, u.Label, byID.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.Unit.ID)

	_, err = repo.GetByLabelAndFingerprint(ctx, u.Label, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_NewestFirst(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := unit.New(pool)
	ctx := context.Background()

	tag := uuid.NewString()[:6]
	older := testhelper.SeedUnit(t, pool, testhelper.SeedEntry(t, pool, "amber"+tag))
	newer := testhelper.SeedUnit(t, pool, testhelper.SeedEntry(t, pool, "umber"+tag))

	got, err := repo.Search(ctx, "MBER"+tag, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].Unit.ID)
	assert.Equal(t, older.ID, got[1].Unit.ID)

	got, err = repo.Search(ctx, "amber"+tag, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, older.ID, got[0].Unit.ID)
}
