package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidEntry  = errors.New("invalid entry instance data")
	ErrEntryNotFound = errors.New("entry instance not found")
	ErrEntryConflict = errors.New("entry instance version conflict")
	ErrUnauthorized  = errors.New("unauthorized access to resource")
)

// DateLayout is the format of every bucket key in an EntryInstancesMap.
const DateLayout = "2006-01-02"

type EntryInstance struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id,omitempty" db:"user_id"`
	EntryTypeID string `json:"entryTypeId" db:"entry_type_id"`
	Points      Points `json:"points" db:"points"`
	Notes       string `json:"notes" db:"notes"`

	Version   int        `json:"version,omitempty" db:"version"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewEntryInstance(entryTypeID, userID string, createdAt time.Time, points Points, notes string) *EntryInstance {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}

	return &EntryInstance{
		EntryTypeID: entryTypeID,
		UserID:      userID,
		Points:      points,
		Notes:       strings.TrimSpace(notes),

		Version:   1,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: now,
	}
}

func (e *EntryInstance) Validate() error {
	if strings.TrimSpace(e.EntryTypeID) == "" {
		return errors.New("entry_type_id is required")
	}
	if strings.TrimSpace(e.UserID) == "" {
		return errors.New("user_id is required")
	}
	if e.Points < 0 {
		return errors.New("points cannot be negative")
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	return nil
}

// DateKey is the calendar day the instance belongs to, in loc (UTC if nil).
func (e *EntryInstance) DateKey(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return e.CreatedAt.In(loc).Format(DateLayout)
}

// EntryInstancesMap groups instances by their YYYY-MM-DD date key. Every
// instance stored under a key must have been created on that day.
type EntryInstancesMap map[string][]EntryInstance

func GroupByDate(instances []*EntryInstance, loc *time.Location) EntryInstancesMap {
	m := make(EntryInstancesMap)
	for _, e := range instances {
		if e == nil || e.DeletedAt != nil {
			continue
		}
		key := e.DateKey(loc)
		m[key] = append(m[key], *e)
	}
	for _, list := range m {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}
	return m
}

// Dates returns the keys in ascending order, including days with no entries.
func (m EntryInstancesMap) Dates() []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Has reports whether at least one instance was logged on date.
func (m EntryInstancesMap) Has(date string) bool {
	return len(m[date]) > 0
}

func (m EntryInstancesMap) Flatten() []*EntryInstance {
	var out []*EntryInstance
	for _, d := range m.Dates() {
		for i := range m[d] {
			e := m[d][i]
			out = append(out, &e)
		}
	}
	return out
}

func (m EntryInstancesMap) Len() int {
	n := 0
	for _, list := range m {
		n += len(list)
	}
	return n
}
