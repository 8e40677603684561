package streaks

import "github.com/comitanigiacomo/kanso-diary/internal/core/domain"

// HabitStreaks returns, per entry type id, the longest run of consecutive
// periods (days, ISO weeks or months, depending on routine) in which that type
// was logged at least once. Adhoc routines have no periods and yield an empty
// map.
func (e *Engine) HabitStreaks(m domain.EntryInstancesMap, routine domain.Routine) map[string]int {
	best := make(map[string]int)

	s, ok := e.schemeFor(routine)
	if !ok {
		return best
	}

	keys, groups := e.sortedBuckets(m.Dates(), s)

	running := make(map[string]int)
	lastSeen := make(map[string]string)

	for _, key := range keys {
		present := make(map[string]bool)
		for _, d := range groups[key] {
			for _, inst := range m[d] {
				if inst.EntryTypeID != "" {
					present[inst.EntryTypeID] = true
				}
			}
		}

		prev := s.prev(key)
		for id := range present {
			if running[id] > 0 && lastSeen[id] == prev {
				running[id]++
			} else {
				running[id] = 1
			}
			lastSeen[id] = key

			// the max is taken on every step so a run still open at the end
			// of the data is counted
			if running[id] > best[id] {
				best[id] = running[id]
			}
		}

		for id, run := range running {
			if run > 0 && !present[id] {
				running[id] = 0
			}
		}
	}

	return best
}
