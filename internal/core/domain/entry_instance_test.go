package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

func TestNewEntryInstance(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Rome")
	if loc == nil {
		loc = time.UTC
	}

	created := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)
	entry := domain.NewEntryInstance("run", "u1", created, 2, "  easy pace ")

	t.Run("Should set identity fields and trim notes", func(t *testing.T) {
		assert.Equal(t, "run", entry.EntryTypeID)
		assert.Equal(t, "u1", entry.UserID)
		assert.Equal(t, domain.Points(2), entry.Points)
		assert.Equal(t, "easy pace", entry.Notes)
		assert.Equal(t, 1, entry.Version)
	})

	t.Run("Should store CreatedAt in UTC", func(t *testing.T) {
		assert.Equal(t, created.UTC(), entry.CreatedAt)
		assert.Equal(t, "UTC", entry.CreatedAt.Location().String())
	})

	t.Run("Zero timestamp defaults to now", func(t *testing.T) {
		e := domain.NewEntryInstance("run", "u1", time.Time{}, 1, "")
		assert.WithinDuration(t, time.Now().UTC(), e.CreatedAt, 2*time.Second)
	})
}

func TestEntryInstance_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		entry    domain.EntryInstance
		errorMsg string
	}{
		{"Valid", domain.EntryInstance{EntryTypeID: "run", UserID: "u1", CreatedAt: now, Points: 1}, ""},
		{"Missing type", domain.EntryInstance{EntryTypeID: " ", UserID: "u1", CreatedAt: now}, "entry_type_id is required"},
		{"Missing user", domain.EntryInstance{EntryTypeID: "run", CreatedAt: now}, "user_id is required"},
		{"Negative points", domain.EntryInstance{EntryTypeID: "run", UserID: "u1", CreatedAt: now, Points: -1}, "points cannot be negative"},
		{"Missing timestamp", domain.EntryInstance{EntryTypeID: "run", UserID: "u1"}, "created_at is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errorMsg)
		})
	}
}

func TestGroupByDate(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}

	late := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	deleted := time.Now()

	instances := []*domain.EntryInstance{
		{ID: "b", EntryTypeID: "run", CreatedAt: late},
		{ID: "a", EntryTypeID: "read", CreatedAt: late.Add(-time.Hour)},
		{ID: "c", EntryTypeID: "run", CreatedAt: late.AddDate(0, 0, 1)},
		{ID: "d", EntryTypeID: "run", CreatedAt: late, DeletedAt: &deleted},
		nil,
	}

	t.Run("UTC buckets, ordered by creation, skipping deleted", func(t *testing.T) {
		m := domain.GroupByDate(instances, nil)

		require.Len(t, m, 2)
		require.Len(t, m["2024-01-01"], 2)
		assert.Equal(t, "a", m["2024-01-01"][0].ID)
		assert.Equal(t, "b", m["2024-01-01"][1].ID)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, m.Dates())
		assert.Equal(t, 3, m.Len())
	})

	t.Run("Location shifts late-night entries to the next day", func(t *testing.T) {
		m := domain.GroupByDate(instances, rome)

		assert.Len(t, m["2024-01-01"], 1)
		assert.Len(t, m["2024-01-02"], 1)
		assert.Len(t, m["2024-01-03"], 1)
	})

	t.Run("Flatten returns every instance in date order", func(t *testing.T) {
		m := domain.GroupByDate(instances, nil)
		flat := m.Flatten()

		require.Len(t, flat, 3)
		assert.Equal(t, "a", flat[0].ID)
		assert.Equal(t, "c", flat[2].ID)
	})

	t.Run("Has treats empty days as missing", func(t *testing.T) {
		m := domain.EntryInstancesMap{"2024-01-01": {}}
		assert.False(t, m.Has("2024-01-01"))
		assert.False(t, m.Has("2024-01-02"))
	})
}
