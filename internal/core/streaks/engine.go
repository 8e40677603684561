// Package streaks derives streaks, rankings and chart buckets from a user's
// entry catalog and date-keyed entry map. Every function is pure: inputs are
// never modified and nothing is cached between calls.
package streaks

// Engine runs the computations on top of a Calendar.
type Engine struct {
	cal Calendar
}

func New(cal Calendar) *Engine {
	if cal == nil {
		cal = ISOCalendar{}
	}
	return &Engine{cal: cal}
}

var Default = New(ISOCalendar{})

func (e *Engine) Calendar() Calendar {
	return e.cal
}
