package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content365/content365/internal/db"
	"github.com/content365/content365/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func newPack(filename string) *model.Pack {
	return &model.Pack{
		ID:        uuid.NewString(),
		Topic:     "a topic",
		Tone:      "Professional",
		Platforms: "Instagram,LinkedIn",
		Filename:  filename,
		Status:    model.PackStatusGenerated,
		CreatedAt: time.Now().UTC(),
	}
}

func TestPackRepository(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	pack := newPack("3f9c2a81d07b.pdf")
	require.NoError(t, repo.Create(pack))

	got, err := repo.ByFilename("3f9c2a81d07b.pdf")
	require.NoError(t, err)
	assert.Equal(t, pack.ID, got.ID)
	assert.Equal(t, "a topic", got.Topic)
	assert.Equal(t, model.PackStatusGenerated, got.Status)

	_, err = repo.ByFilename("000000000000.pdf")
	assert.ErrorIs(t, err, ErrPackNotFound)

	require.NoError(t, repo.MarkEmailed(pack.ID))
	got, err = repo.ByFilename("3f9c2a81d07b.pdf")
	require.NoError(t, err)
	assert.Equal(t, model.PackStatusEmailed, got.Status)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPackRepositoryRecent(t *testing.T) {
	repo := NewPackRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		p := newPack(uuid.NewString() + ".pdf")
		p.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(p))
	}

	got, err := repo.Recent(2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
}

func TestCheckoutRepository(t *testing.T) {
	repo := NewCheckoutRepository(newTestDB(t))

	rec := &model.CheckoutRequest{
		ID:        uuid.NewString(),
		Provider:  model.ProviderStripe,
		Request:   `{"topic":"paid"}`,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(rec))

	got, err := repo.ByID(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"topic":"paid"}`, got.Request)
	assert.Nil(t, got.ConsumedAt)

	_, err = repo.ByID("missing")
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}

func TestCheckoutRepositoryConsumeOnce(t *testing.T) {
	repo := NewCheckoutRepository(newTestDB(t))

	rec := &model.CheckoutRequest{
		ID:        uuid.NewString(),
		Provider:  model.ProviderPolar,
		Request:   `{}`,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(rec))

	require.NoError(t, repo.Consume(rec.ID))

	got, err := repo.ByID(rec.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ConsumedAt)

	assert.ErrorIs(t, repo.Consume(rec.ID), ErrCheckoutConsumed)
}

func TestCheckoutRepositoryDeleteOlderThan(t *testing.T) {
	repo := NewCheckoutRepository(newTestDB(t))

	old := &model.CheckoutRequest{
		ID:        uuid.NewString(),
		Provider:  model.ProviderStripe,
		Request:   `{}`,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	fresh := &model.CheckoutRequest{
		ID:        uuid.NewString(),
		Provider:  model.ProviderStripe,
		Request:   `{}`,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(old))
	require.NoError(t, repo.Create(fresh))

	n, err := repo.DeleteOlderThan(time.Now().UTC().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.ByID(old.ID)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
	_, err = repo.ByID(fresh.ID)
	assert.NoError(t, err)
}
