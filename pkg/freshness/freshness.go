// Package freshness decides when a stored record has to be fetched again.
// The decision depends only on stored data, so it survives restarts and
// does not need any schedule kept in memory.
package freshness

import "time"

// DefaultWindowDays is the default staleness window.
const DefaultWindowDays = 3

// Gate skips records refreshed within the last WindowDays calendar days.
type Gate struct {
	WindowDays int
}

// New returns a Gate with the given window. Non-positive windows fall
// back to DefaultWindowDays.
func New(windowDays int) Gate {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return Gate{WindowDays: windowDays}
}

// ShouldSkip reports whether a record last updated at last does not need
// a new fetch on the day of today. A record that was never updated is
// never skipped.
func (g Gate) ShouldSkip(last *time.Time, today time.Time) bool {
	if last == nil {
		return false
	}
	return DaysBetween(*last, today) <= g.WindowDays
}

// DaysBetween returns the number of calendar days from the date of from
// to the date of to. Both dates are taken in the location of to.
func DaysBetween(from, to time.Time) int {
	from = from.In(to.Location())
	d1 := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	d2 := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(d2.Sub(d1).Hours() / 24)
}
