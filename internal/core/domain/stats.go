package domain

import "time"

type StatsInput struct {
	UserID      string
	Today       time.Time
	Granularity string
	Location    *time.Location
}

type StatsSummary struct {
	Today         string        `json:"today"`
	Granularity   string        `json:"granularity"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	TotalEntries  int           `json:"total_entries"`
	Habits        []HabitStat   `json:"habits"`
	Chart         []ChartBucket `json:"chart"`
}

type HabitStat struct {
	EntryTypeID string  `json:"entry_type_id"`
	Title       string  `json:"title"`
	Routine     Routine `json:"routine"`
	TotalCount  int     `json:"total_count"`
	TotalPoints Points  `json:"total_points"`
	MaxStreak   int     `json:"max_streak"`
	Rank        int     `json:"rank"`
}

// ChartBucket holds the per-habit count and point sum of one day, week or
// month label. Labels with no entries are still present, with empty maps.
type ChartBucket struct {
	Label  string            `json:"label"`
	Counts map[string]int    `json:"counts"`
	Points map[string]Points `json:"points"`
}

// HabitGrid is the history of one entry type laid over the periods of its
// routine, oldest first.
type HabitGrid struct {
	EntryTypeID string       `json:"entry_type_id"`
	Title       string       `json:"title"`
	Routine     Routine      `json:"routine"`
	MaxStreak   int          `json:"max_streak"`
	Periods     []PeriodCell `json:"periods"`
}

type PeriodCell struct {
	Period
	Count  int    `json:"count"`
	Points Points `json:"points"`
}
