package streaks

import (
	"errors"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

var ErrInvalidGranularity = errors.New("invalid granularity (must be day, week, or month)")

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// MinTrailingDays is how far back from today a range always reaches.
const MinTrailingDays = 6

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GranularityDay, nil
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	}
	return "", ErrInvalidGranularity
}

// EarliestDate is the first day with logged data, or today minus
// MinTrailingDays when that is earlier or there is no data at all.
func (e *Engine) EarliestDate(m domain.EntryInstancesMap, today string) string {
	t, err := e.cal.Parse(today)
	if err != nil {
		return today
	}
	floor := e.cal.Format(e.cal.AddDays(t, -MinTrailingDays))

	for _, d := range m.Dates() {
		if !m.Has(d) {
			continue
		}
		if d < floor {
			return d
		}
		break
	}
	return floor
}

// ExpandRange lists every day, ISO week start or month start between earliest
// and today inclusive, without gaps. earliest is clamped so the range covers
// at least the trailing week. It returns nil when either date is malformed.
func (e *Engine) ExpandRange(earliest, today string, g Granularity) []string {
	end, err := e.cal.Parse(today)
	if err != nil {
		return nil
	}
	start, err := e.cal.Parse(earliest)
	if err != nil {
		return nil
	}
	if floor := e.cal.AddDays(end, -MinTrailingDays); start.After(floor) {
		start = floor
	}

	var labels []string
	switch g {
	case GranularityWeek:
		for t := e.cal.StartOfWeek(start); !t.After(end); t = e.cal.AddDays(t, 7) {
			labels = append(labels, e.cal.Format(t))
		}
	case GranularityMonth:
		for t := e.cal.StartOfMonth(start); !t.After(end); t = e.cal.AddMonths(t, 1) {
			labels = append(labels, e.cal.Format(t))
		}
	default:
		for t := start; !t.After(end); t = e.cal.AddDays(t, 1) {
			labels = append(labels, e.cal.Format(t))
		}
	}
	return labels
}

// LabelFor maps a date onto the ExpandRange label that contains it.
func (e *Engine) LabelFor(date string, g Granularity) string {
	t, err := e.cal.Parse(date)
	if err != nil {
		return ""
	}
	switch g {
	case GranularityWeek:
		return e.cal.Format(e.cal.StartOfWeek(t))
	case GranularityMonth:
		return e.cal.Format(e.cal.StartOfMonth(t))
	}
	return date
}

// PeriodFor is the window of the given routine that contains date. Adhoc
// entry types are shown day by day.
func (e *Engine) PeriodFor(date string, routine domain.Routine) domain.Period {
	t, err := e.cal.Parse(date)
	if err != nil {
		return domain.Period{}
	}
	start, end := e.bounds(t, routine)
	return domain.Period{Start: e.cal.Format(start), End: e.cal.Format(end)}
}

// Periods lists the consecutive windows of routine from the one containing
// earliest through the one containing today.
func (e *Engine) Periods(earliest, today string, routine domain.Routine) []domain.Period {
	from, err := e.cal.Parse(earliest)
	if err != nil {
		return nil
	}
	to, err := e.cal.Parse(today)
	if err != nil {
		return nil
	}

	var periods []domain.Period
	for t, _ := e.bounds(from, routine); !t.After(to); {
		start, end := e.bounds(t, routine)
		periods = append(periods, domain.Period{Start: e.cal.Format(start), End: e.cal.Format(end)})
		t = e.cal.AddDays(end, 1)
	}
	return periods
}

func (e *Engine) bounds(t time.Time, routine domain.Routine) (time.Time, time.Time) {
	switch routine {
	case domain.RoutineWeekly:
		start := e.cal.StartOfWeek(t)
		return start, e.cal.AddDays(start, 6)
	case domain.RoutineMonthly:
		start := e.cal.StartOfMonth(t)
		return start, e.cal.AddDays(e.cal.AddMonths(start, 1), -1)
	}
	return t, t
}
