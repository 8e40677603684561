package domain

import (
	"errors"
	"strings"
)

var ErrInvalidRoutine = errors.New("invalid routine (must be daily, weekly, monthly, or adhoc)")

type Routine string

const (
	RoutineDaily   Routine = "daily"
	RoutineWeekly  Routine = "weekly"
	RoutineMonthly Routine = "monthly"
	RoutineAdhoc   Routine = "adhoc"
)

func (r Routine) Valid() bool {
	switch r {
	case RoutineDaily, RoutineWeekly, RoutineMonthly, RoutineAdhoc:
		return true
	}
	return false
}

func ParseRoutine(s string) (Routine, error) {
	r := Routine(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return RoutineDaily, nil
	}
	if !r.Valid() {
		return "", ErrInvalidRoutine
	}
	return r, nil
}

// Period is one comparison window: a single day, an ISO week or a calendar
// month, bounds inclusive.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
