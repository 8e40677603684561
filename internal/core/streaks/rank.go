package streaks

import (
	"sort"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// TotalCounts is the number of instances per entry type id across all dates.
func (e *Engine) TotalCounts(m domain.EntryInstancesMap) map[string]int {
	counts := make(map[string]int)
	for _, list := range m {
		for _, inst := range list {
			counts[inst.EntryTypeID]++
		}
	}
	return counts
}

// RankByCount returns a copy of types ordered by total count, highest first.
// Equal counts keep their input order.
func (e *Engine) RankByCount(types []*domain.EntryType, m domain.EntryInstancesMap) []*domain.EntryType {
	counts := e.TotalCounts(m)

	ranked := make([]*domain.EntryType, len(types))
	copy(ranked, types)

	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i].ID] > counts[ranked[j].ID]
	})
	return ranked
}
