package streaks

import (
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// Calendar is the date arithmetic the engine relies on. Dates are the
// YYYY-MM-DD keys of an EntryInstancesMap.
type Calendar interface {
	Parse(date string) (time.Time, error)
	Format(t time.Time) string
	AddDays(t time.Time, n int) time.Time
	AddMonths(t time.Time, n int) time.Time
	ISOWeek(t time.Time) (year, week int)
	StartOfWeek(t time.Time) time.Time
	StartOfMonth(t time.Time) time.Time
	WeeksInYear(year int) int
}

// ISOCalendar works on UTC midnights with Monday as the first day of the week.
type ISOCalendar struct{}

var _ Calendar = ISOCalendar{}

func (ISOCalendar) Parse(date string) (time.Time, error) {
	return time.Parse(domain.DateLayout, date)
}

func (ISOCalendar) Format(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func (ISOCalendar) AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths expects t to be the first of a month; AddDate would otherwise
// normalize e.g. Jan 31 + 1 month into March.
func (ISOCalendar) AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

func (ISOCalendar) ISOWeek(t time.Time) (int, int) {
	return t.ISOWeek()
}

func (ISOCalendar) StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (ISOCalendar) StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// WeeksInYear is 52 or 53; December 28th always falls in the last ISO week.
func (ISOCalendar) WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}
