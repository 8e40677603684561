package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func TestPostgresEntryRepository_Integration(t *testing.T) {
	db := setupTestDB(t, "pgx")
	repo := NewPostgresEntryRepository(db)
	ctx := context.Background()

	insertUser(t, db, "entry-user", "entries@kanso.app")

	newEntry := func(typeID string, day int) *domain.EntryInstance {
		e := domain.NewEntryInstance(typeID, "entry-user", time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC), 1.5, "note")
		e.ID = uuid.NewString()
		return e
	}

	first := newEntry("read", 1)
	second := newEntry("run", 2)

	t.Run("Create and Get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Points(1.5), got.Points)
		assert.Equal(t, 1, got.Version)
		assert.Nil(t, got.DeletedAt)
	})

	t.Run("Optimistic Locking: Prevent Overwrite", func(t *testing.T) {
		deviceA, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		deviceB, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)

		deviceB.Notes = "B wins"
		deviceB.Version++
		require.NoError(t, repo.Update(ctx, deviceB))

		deviceA.Notes = "A loses"
		deviceA.Version++
		assert.ErrorIs(t, repo.Update(ctx, deviceA), domain.ErrEntryConflict)
	})

	var lastSync time.Time
	require.NoError(t, db.QueryRow("SELECT NOW()").Scan(&lastSync))
	time.Sleep(50 * time.Millisecond)

	t.Run("ReassignType", func(t *testing.T) {
		require.NoError(t, repo.ReassignType(ctx, "entry-user", "read", "read-books"))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "read-books", got.EntryTypeID)
	})

	t.Run("DeleteByType", func(t *testing.T) {
		require.NoError(t, repo.DeleteByType(ctx, "entry-user", "run"))

		list, err := repo.ListByUserID(ctx, "entry-user")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, first.ID, list[0].ID)
	})

	t.Run("GetChanges (Delta Sync)", func(t *testing.T) {
		changes, err := repo.GetChanges(ctx, "entry-user", lastSync)
		require.NoError(t, err)
		assert.Len(t, changes, 2)
	})

	t.Run("Delete Non-Existent ID", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString(), "entry-user"), domain.ErrEntryNotFound)
	})
}
