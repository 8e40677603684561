package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/streaks"
)

func TestStatsService_GetSummary(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	read, err := domain.NewEntryType("user-1", "Read", domain.RoutineDaily, 1, 1, [2]string{})
	require.NoError(t, err)
	gym, err := domain.NewEntryType("user-1", "Gym", domain.RoutineWeekly, 2, 1, [2]string{})
	require.NoError(t, err)

	entries := []*domain.EntryInstance{
		entryAt("read", "2024-01-01"),
		entryAt("read", "2024-01-02"),
		entryAt("read", "2024-01-03"),
		entryAt("gym", "2024-01-03"),
		entryAt("gym", "2024-01-09"),
		entryAt("read", "2024-01-09"),
		entryAt("read", "2024-01-10"),
	}
	entries[3].Points = 2
	entries[4].Points = 2.5

	setup := func() *StatsService {
		types := new(MockEntryTypeRepo)
		repo := new(MockEntryRepo)
		types.On("ListByUserID", ctx, "user-1").Return([]*domain.EntryType{gym, read}, nil)
		repo.On("ListByUserID", ctx, "user-1").Return(entries, nil)
		return NewStatsService(types, repo)
	}

	t.Run("Success: Should compute streaks and ranking", func(t *testing.T) {
		summary, err := setup().GetSummary(ctx, domain.StatsInput{UserID: "user-1", Today: today})

		require.NoError(t, err)
		assert.Equal(t, "2024-01-10", summary.Today)
		assert.Equal(t, "day", summary.Granularity)
		assert.Equal(t, 2, summary.CurrentStreak)
		assert.Equal(t, 3, summary.LongestStreak)
		assert.Equal(t, 7, summary.TotalEntries)

		require.Len(t, summary.Habits, 2)
		assert.Equal(t, domain.HabitStat{
			EntryTypeID: "read", Title: "Read", Routine: domain.RoutineDaily,
			TotalCount: 5, TotalPoints: 5, MaxStreak: 3, Rank: 1,
		}, summary.Habits[0])
		assert.Equal(t, domain.HabitStat{
			EntryTypeID: "gym", Title: "Gym", Routine: domain.RoutineWeekly,
			TotalCount: 2, TotalPoints: 4.5, MaxStreak: 2, Rank: 2,
		}, summary.Habits[1])
	})

	t.Run("Success: Should fill daily chart without gaps", func(t *testing.T) {
		summary, err := setup().GetSummary(ctx, domain.StatsInput{UserID: "user-1", Today: today})
		require.NoError(t, err)

		require.Len(t, summary.Chart, 10)
		assert.Equal(t, "2024-01-01", summary.Chart[0].Label)
		assert.Equal(t, "2024-01-10", summary.Chart[9].Label)

		assert.Equal(t, map[string]int{"read": 1, "gym": 1}, summary.Chart[2].Counts)
		assert.Empty(t, summary.Chart[4].Counts)
		assert.NotNil(t, summary.Chart[4].Points)
	})

	t.Run("Success: Should bucket by ISO week", func(t *testing.T) {
		summary, err := setup().GetSummary(ctx, domain.StatsInput{
			UserID: "user-1", Today: today, Granularity: "week",
		})
		require.NoError(t, err)

		require.Len(t, summary.Chart, 2)
		assert.Equal(t, "2024-01-01", summary.Chart[0].Label)
		assert.Equal(t, "2024-01-08", summary.Chart[1].Label)
		assert.Equal(t, 3, summary.Chart[0].Counts["read"])
		assert.Equal(t, domain.Points(2.5), summary.Chart[1].Points["gym"])
	})

	t.Run("Fail: Should reject unknown granularity", func(t *testing.T) {
		_, err := NewStatsService(new(MockEntryTypeRepo), new(MockEntryRepo)).GetSummary(ctx, domain.StatsInput{
			UserID: "user-1", Granularity: "year",
		})

		assert.ErrorIs(t, err, streaks.ErrInvalidGranularity)
	})

	t.Run("Success: Should return seven empty days without data", func(t *testing.T) {
		types := new(MockEntryTypeRepo)
		repo := new(MockEntryRepo)
		types.On("ListByUserID", ctx, "user-2").Return([]*domain.EntryType{}, nil)
		repo.On("ListByUserID", ctx, "user-2").Return([]*domain.EntryInstance{}, nil)

		summary, err := NewStatsService(types, repo).GetSummary(ctx, domain.StatsInput{UserID: "user-2", Today: today})

		require.NoError(t, err)
		assert.Zero(t, summary.CurrentStreak)
		assert.Zero(t, summary.LongestStreak)
		assert.Empty(t, summary.Habits)
		require.Len(t, summary.Chart, 7)
		assert.Equal(t, "2024-01-04", summary.Chart[0].Label)
	})
}

func TestStatsService_GetHabitGrid(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	gym, err := domain.NewEntryType("user-1", "Gym", domain.RoutineWeekly, 2, 1, [2]string{})
	require.NoError(t, err)

	entries := []*domain.EntryInstance{
		entryAt("gym", "2024-01-03"),
		entryAt("read", "2024-01-05"),
		entryAt("gym", "2024-01-09"),
	}
	entries[2].Points = 2.5

	t.Run("Success: Should lay entries over weekly periods", func(t *testing.T) {
		types := new(MockEntryTypeRepo)
		repo := new(MockEntryRepo)
		types.On("GetByID", ctx, "user-1", "gym").Return(gym, nil)
		repo.On("ListByUserID", ctx, "user-1").Return(entries, nil)

		grid, err := NewStatsService(types, repo).GetHabitGrid(ctx, domain.StatsInput{UserID: "user-1", Today: today}, "gym")

		require.NoError(t, err)
		assert.Equal(t, 2, grid.MaxStreak)
		assert.Equal(t, []domain.PeriodCell{
			{Period: domain.Period{Start: "2024-01-01", End: "2024-01-07"}, Count: 1, Points: 1},
			{Period: domain.Period{Start: "2024-01-08", End: "2024-01-14"}, Count: 1, Points: 2.5},
		}, grid.Periods)
	})

	t.Run("Fail: Should propagate unknown entry type", func(t *testing.T) {
		types := new(MockEntryTypeRepo)
		types.On("GetByID", ctx, "user-1", "nope").Return(nil, domain.ErrEntryTypeNotFound)

		_, err := NewStatsService(types, new(MockEntryRepo)).GetHabitGrid(ctx, domain.StatsInput{UserID: "user-1", Today: today}, "nope")

		assert.ErrorIs(t, err, domain.ErrEntryTypeNotFound)
	})
}
