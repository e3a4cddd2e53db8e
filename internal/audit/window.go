package audit

import (
	"fmt"
	"time"
)

// DefaultFiscalYear is the fiscal year audited when none is configured.
const DefaultFiscalYear = 2025

// Window is a closed range of calendar dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// FiscalYear returns the window [year-01-01, year-12-31].
func FiscalYear(year int) Window {
	return Window{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Contains reports whether the calendar date of t lies inside the window,
// bounds included. The time of day is ignored, so any moment on the last
// day of the window is inside.
func (w Window) Contains(t time.Time) bool {
	d := calendarDate(t)
	return !d.Before(calendarDate(w.Start)) && !d.After(calendarDate(w.End))
}

// String renders the window as "start..end".
func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// calendarDate drops the time of day, keeping the date as written.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
