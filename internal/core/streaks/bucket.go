package streaks

import (
	"fmt"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// GroupByWeek buckets dates under "{ISO-year}-{ISO-week}" keys, e.g. "2024-1".
// Dates that fail to parse are skipped.
func (e *Engine) GroupByWeek(dates []string) map[string][]string {
	return e.group(dates, e.weekKey)
}

// GroupByMonth buckets dates under "YYYY-MM" keys.
func (e *Engine) GroupByMonth(dates []string) map[string][]string {
	return e.group(dates, monthKey)
}

func (e *Engine) group(dates []string, key func(time.Time) string) map[string][]string {
	groups := make(map[string][]string)
	for _, d := range dates {
		t, err := e.cal.Parse(d)
		if err != nil {
			continue
		}
		k := key(t)
		groups[k] = append(groups[k], d)
	}
	return groups
}

func (e *Engine) weekKey(t time.Time) string {
	y, w := e.cal.ISOWeek(t)
	return formatWeekKey(y, w)
}

func formatWeekKey(year, week int) string {
	return fmt.Sprintf("%d-%d", year, week)
}

func parseWeekKey(key string) (year, week int) {
	_, _ = fmt.Sscanf(key, "%d-%d", &year, &week)
	return year, week
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func parseMonthKey(key string) (year, month int) {
	_, _ = fmt.Sscanf(key, "%d-%d", &year, &month)
	return year, month
}

// scheme describes how one routine splits the calendar into periods.
type scheme struct {
	key  func(t time.Time) string
	prev func(key string) string
	less func(a, b string) bool
}

func (e *Engine) schemeFor(routine domain.Routine) (scheme, bool) {
	switch routine {
	case domain.RoutineDaily:
		return scheme{
			key: e.cal.Format,
			prev: func(key string) string {
				t, err := e.cal.Parse(key)
				if err != nil {
					return ""
				}
				return e.cal.Format(e.cal.AddDays(t, -1))
			},
			less: func(a, b string) bool { return a < b },
		}, true

	case domain.RoutineWeekly:
		return scheme{
			key: e.weekKey,
			prev: func(key string) string {
				y, w := parseWeekKey(key)
				if w <= 1 {
					return formatWeekKey(y-1, e.cal.WeeksInYear(y-1))
				}
				return formatWeekKey(y, w-1)
			},
			less: func(a, b string) bool {
				ya, wa := parseWeekKey(a)
				yb, wb := parseWeekKey(b)
				if ya != yb {
					return ya < yb
				}
				return wa < wb
			},
		}, true

	case domain.RoutineMonthly:
		return scheme{
			key: monthKey,
			prev: func(key string) string {
				y, m := parseMonthKey(key)
				m--
				if m == 0 {
					y--
					m = 12
				}
				return fmt.Sprintf("%04d-%02d", y, m)
			},
			less: func(a, b string) bool { return a < b },
		}, true
	}

	return scheme{}, false
}

func (e *Engine) sortedBuckets(dates []string, s scheme) ([]string, map[string][]string) {
	groups := e.group(dates, s.key)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return s.less(keys[i], keys[j]) })
	return keys, groups
}
