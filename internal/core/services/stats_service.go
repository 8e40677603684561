package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/streaks"
)

type StatsService struct {
	typeRepo  domain.EntryTypeRepository
	entryRepo domain.EntryInstanceRepository
	engine    *streaks.Engine
}

func NewStatsService(typeRepo domain.EntryTypeRepository, entryRepo domain.EntryInstanceRepository) *StatsService {
	return &StatsService{
		typeRepo:  typeRepo,
		entryRepo: entryRepo,
		engine:    streaks.Default,
	}
}

func (s *StatsService) GetSummary(ctx context.Context, input domain.StatsInput) (*domain.StatsSummary, error) {
	granularity, err := streaks.ParseGranularity(input.Granularity)
	if err != nil {
		return nil, err
	}

	loc, today := resolveToday(input)

	types, err := s.typeRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	m := domain.GroupByDate(entries, loc)

	summary := &domain.StatsSummary{
		Today:         today,
		Granularity:   string(granularity),
		CurrentStreak: s.engine.CurrentStreak(m, today),
		LongestStreak: s.engine.LongestStreak(m),
		TotalEntries:  m.Len(),
		Habits:        s.habitStats(types, m),
		Chart:         s.chart(m, today, granularity),
	}

	return summary, nil
}

func (s *StatsService) habitStats(types []*domain.EntryType, m domain.EntryInstancesMap) []domain.HabitStat {
	counts := s.engine.TotalCounts(m)

	points := make(map[string]domain.Points)
	for _, list := range m {
		for _, inst := range list {
			points[inst.EntryTypeID] += inst.Points
		}
	}

	byRoutine := make(map[domain.Routine]map[string]int)
	stats := make([]domain.HabitStat, 0, len(types))

	for i, t := range s.engine.RankByCount(types, m) {
		maxStreaks, ok := byRoutine[t.Routine]
		if !ok {
			maxStreaks = s.engine.HabitStreaks(m, t.Routine)
			byRoutine[t.Routine] = maxStreaks
		}

		stats = append(stats, domain.HabitStat{
			EntryTypeID: t.ID,
			Title:       t.Title,
			Routine:     t.Routine,
			TotalCount:  counts[t.ID],
			TotalPoints: points[t.ID],
			MaxStreak:   maxStreaks[t.ID],
			Rank:        i + 1,
		})
	}

	return stats
}

func (s *StatsService) chart(m domain.EntryInstancesMap, today string, g streaks.Granularity) []domain.ChartBucket {
	labels := s.engine.ExpandRange(s.engine.EarliestDate(m, today), today, g)

	buckets := make([]domain.ChartBucket, len(labels))
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		buckets[i] = domain.ChartBucket{
			Label:  label,
			Counts: make(map[string]int),
			Points: make(map[string]domain.Points),
		}
		index[label] = i
	}

	for date, list := range m {
		i, ok := index[s.engine.LabelFor(date, g)]
		if !ok {
			continue
		}
		for _, inst := range list {
			buckets[i].Counts[inst.EntryTypeID]++
			buckets[i].Points[inst.EntryTypeID] += inst.Points
		}
	}

	return buckets
}

func resolveToday(input domain.StatsInput) (*time.Location, string) {
	loc := input.Location
	if loc == nil {
		loc = time.UTC
	}

	now := input.Today
	if now.IsZero() {
		now = time.Now()
	}
	return loc, now.In(loc).Format(domain.DateLayout)
}

// GetHabitGrid returns the per-period history of one entry type, from its
// first logged day (or a week back, whichever is earlier) through today.
func (s *StatsService) GetHabitGrid(ctx context.Context, input domain.StatsInput, typeID string) (*domain.HabitGrid, error) {
	loc, today := resolveToday(input)

	entryType, err := s.typeRepo.GetByID(ctx, input.UserID, typeID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	own := make([]*domain.EntryInstance, 0, len(entries))
	for _, e := range entries {
		if e.EntryTypeID == entryType.ID {
			own = append(own, e)
		}
	}
	m := domain.GroupByDate(own, loc)

	periods := s.engine.Periods(s.engine.EarliestDate(m, today), today, entryType.Routine)
	cells := make([]domain.PeriodCell, len(periods))
	index := make(map[string]int, len(periods))
	for i, p := range periods {
		cells[i] = domain.PeriodCell{Period: p}
		index[p.Start] = i
	}

	for date, list := range m {
		i, ok := index[s.engine.PeriodFor(date, entryType.Routine).Start]
		if !ok {
			continue
		}
		for _, inst := range list {
			cells[i].Count++
			cells[i].Points += inst.Points
		}
	}

	return &domain.HabitGrid{
		EntryTypeID: entryType.ID,
		Title:       entryType.Title,
		Routine:     entryType.Routine,
		MaxStreak:   s.engine.HabitStreaks(m, entryType.Routine)[entryType.ID],
		Periods:     cells,
	}, nil
}
