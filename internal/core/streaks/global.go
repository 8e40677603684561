package streaks

import (
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// LongestStreak is the longest run of consecutive days with at least one
// entry of any type. Keys are walked in order; a key holding no entries
// breaks the run and does not become the anchor for the next day.
func (e *Engine) LongestStreak(m domain.EntryInstancesMap) int {
	longest, run := 0, 0

	var anchor time.Time
	hasAnchor := false

	for _, d := range m.Dates() {
		if !m.Has(d) {
			run = 0
			continue
		}

		t, err := e.cal.Parse(d)
		if err != nil {
			run = 0
			continue
		}

		if hasAnchor && e.cal.AddDays(anchor, 1).Equal(t) {
			run++
		} else {
			run = 1
		}
		anchor = t
		hasAnchor = true

		if run > longest {
			longest = run
		}
	}

	return longest
}

// CurrentStreak counts consecutive calendar days with entries, walking back
// from today. It is 0 when today has nothing logged.
func (e *Engine) CurrentStreak(m domain.EntryInstancesMap, today string) int {
	t, err := e.cal.Parse(today)
	if err != nil {
		return 0
	}

	streak := 0
	for m.Has(e.cal.Format(t)) {
		streak++
		t = e.cal.AddDays(t, -1)
	}
	return streak
}
