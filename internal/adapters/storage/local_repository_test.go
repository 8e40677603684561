package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func TestLocalEntryTypeRepository(t *testing.T) {
	ctx := context.Background()
	types, _ := NewLocalRepositories(openTestStore(t), time.UTC)

	read, err := domain.NewEntryType(LocalUserID, "Read", domain.RoutineDaily, 1, 1, [2]string{})
	require.NoError(t, err)

	t.Run("Create", func(t *testing.T) {
		require.NoError(t, types.Create(ctx, read))
		assert.ErrorIs(t, types.Create(ctx, read), domain.ErrEntryTypeExists)
	})

	t.Run("List stamps the caller", func(t *testing.T) {
		list, err := types.ListByUserID(ctx, LocalUserID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, LocalUserID, list[0].UserID)
	})

	t.Run("Update renames and guards collisions", func(t *testing.T) {
		run, _ := domain.NewEntryType(LocalUserID, "Run", domain.RoutineDaily, 1, 1, [2]string{})
		require.NoError(t, types.Create(ctx, run))

		got, err := types.GetByID(ctx, LocalUserID, "read")
		require.NoError(t, err)
		_, err = got.Update("Run", got.Routine, got.DefaultPoints, got.PointStep, got.ThemeColors)
		require.NoError(t, err)
		assert.ErrorIs(t, types.Update(ctx, "read", got), domain.ErrEntryTypeExists)

		_, err = got.Update("Reading", got.Routine, got.DefaultPoints, got.PointStep, got.ThemeColors)
		require.NoError(t, err)
		require.NoError(t, types.Update(ctx, "read", got))

		_, err = types.GetByID(ctx, LocalUserID, "reading")
		assert.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, types.Delete(ctx, LocalUserID, "run"))
		assert.ErrorIs(t, types.Delete(ctx, LocalUserID, "run"), domain.ErrEntryTypeNotFound)
	})
}

func TestLocalEntryRepository(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	_, entries := NewLocalRepositories(store, time.UTC)

	newEntry := func(id, typeID string, day int) *domain.EntryInstance {
		e := domain.NewEntryInstance(typeID, LocalUserID, time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC), 1, "")
		e.ID = id
		return e
	}

	require.NoError(t, entries.Create(ctx, newEntry("a", "read", 1)))
	require.NoError(t, entries.Create(ctx, newEntry("b", "read", 2)))
	require.NoError(t, entries.Create(ctx, newEntry("c", "run", 2)))

	t.Run("Persists the date keyed shape", func(t *testing.T) {
		raw, ok, err := store.Get(ctx, KeyEntryInstances)
		require.NoError(t, err)
		require.True(t, ok)

		var m map[string][]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &m))
		assert.Len(t, m["2024-01-01"], 1)
		assert.Len(t, m["2024-01-02"], 2)
	})

	t.Run("Update checks version", func(t *testing.T) {
		got, err := entries.GetByID(ctx, "a")
		require.NoError(t, err)

		got.Notes = "changed"
		got.Version = 2
		require.NoError(t, entries.Update(ctx, got))

		assert.ErrorIs(t, entries.Update(ctx, got), domain.ErrEntryConflict)
	})

	t.Run("ReassignType and DeleteByType", func(t *testing.T) {
		require.NoError(t, entries.ReassignType(ctx, LocalUserID, "read", "reading"))
		require.NoError(t, entries.DeleteByType(ctx, LocalUserID, "run"))

		list, err := entries.ListByUserID(ctx, LocalUserID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, e := range list {
			assert.Equal(t, "reading", e.EntryTypeID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, entries.Delete(ctx, "b", LocalUserID))
		assert.ErrorIs(t, entries.Delete(ctx, "b", LocalUserID), domain.ErrEntryNotFound)

		_, err := entries.GetByID(ctx, "b")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}
