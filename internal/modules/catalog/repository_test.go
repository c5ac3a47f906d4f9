package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/database"
	"github.com/aristath/fleetcost/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := database.Schema("catalog")
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	return NewRepository(db, zerolog.Nop())
}

func TestRepository_SeedAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded, err := repo.Seed(ctx, Builtin())
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.Seed(ctx, Builtin())
	require.NoError(t, err)
	assert.False(t, seeded, "seeding a populated catalog is a no-op")

	vehicles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 16)
	assert.Equal(t, "BEV001", vehicles[0].ID)
	assert.Equal(t, "DSL008", vehicles[15].ID)

	for i, v := range Builtin() {
		got, err := repo.Get(ctx, v.ID)
		require.NoError(t, err, "vehicle %d", i)
		assert.Equal(t, v, got)
	}
}

func TestRepository_UpsertAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	v := Builtin()[0]
	v.ComparisonPairID = ""
	require.NoError(t, repo.Upsert(ctx, v))

	v.PurchasePrice = 150000
	require.NoError(t, repo.Upsert(ctx, v))

	got, err := repo.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 150000.0, got.PurchasePrice)
	assert.Empty(t, got.ComparisonPairID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, v.ID))
	_, err = repo.Get(ctx, v.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, v.ID), domain.ErrNotFound))
}

func TestRepository_UpsertRejectsInvalid(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	good := Builtin()[8]
	bad := Builtin()[0]
	bad.PurchasePrice = 0

	err := repo.Upsert(ctx, good, bad)
	assert.True(t, domain.IsConfigurationError(err))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "the whole batch is rolled back")
}
