package streaks_test

import (
	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// logged builds a map where each date holds one instance per given type id.
func logged(days map[string][]string) domain.EntryInstancesMap {
	m := make(domain.EntryInstancesMap)
	for date, types := range days {
		list := make([]domain.EntryInstance, 0, len(types))
		for _, id := range types {
			list = append(list, domain.EntryInstance{ID: date + "-" + id, EntryTypeID: id, Points: 1})
		}
		m[date] = list
	}
	return m
}
