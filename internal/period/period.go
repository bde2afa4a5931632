// Package period maps calendar months to half-open UTC instants.
//
// The tracker anchors "month" semantics to Buenos Aires local midnight
// (fixed UTC-3), but several read paths historically used naive UTC
// midnight instead. Rather than silently merging the two conventions,
// each one is a named Mode and every caller declares which it needs.
package period

import (
	"fmt"
	"time"
)

// Mode is a month-boundary computation strategy.
type Mode struct {
	name string
	// offsetHours is the UTC offset of the local-midnight convention.
	// Zero means boundaries fall on naive UTC midnight.
	offsetHours int
}

// UTCMidnight bounds months at 00:00 UTC on day 1.
var UTCMidnight = Mode{name: "utcMidnight"}

// LocalMidnight bounds months at 00:00 local time for the given UTC
// offset. LocalMidnight(-3) puts the boundary at 03:00 UTC.
func LocalMidnight(offsetHours int) Mode {
	return Mode{name: "localMidnight", offsetHours: offsetHours}
}

func (m Mode) String() string { return m.name }

// MonthStart returns the instant of 00:00 local time on day 1 of the
// month, expressed in UTC.
func (m Mode) MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).
		Add(-time.Duration(m.offsetHours) * time.Hour)
}

// NextMonthStart returns MonthStart of the following month, rolling the
// year on December.
func (m Mode) NextMonthStart(year int, month time.Month) time.Time {
	// time.Date normalizes month overflow.
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).
		Add(-time.Duration(m.offsetHours) * time.Hour)
}

// Range returns the half-open interval [MonthStart, NextMonthStart) for
// the month. Month-bounded queries always use this interval.
func (m Mode) Range(year int, month time.Month) (start, end time.Time) {
	return m.MonthStart(year, month), m.NextMonthStart(year, month)
}

// YearMonth returns the calendar month containing the instant t under
// this mode's convention.
func (m Mode) YearMonth(t time.Time) (int, time.Month) {
	local := t.UTC().Add(time.Duration(m.offsetHours) * time.Hour)
	return local.Year(), local.Month()
}

// RangeFor returns the bounds of the month containing t.
func (m Mode) RangeFor(t time.Time) (start, end time.Time) {
	y, mo := m.YearMonth(t)
	return m.Range(y, mo)
}

// Key returns the period key for a month, e.g. "2026-03". The key is the
// idempotence unit of the recurring materializer.
func Key(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// KeyFor returns the period key of the month containing t under mode m.
func (m Mode) KeyFor(t time.Time) string {
	return Key(m.YearMonth(t))
}

// Previous returns the month before (year, month), rolling the year.
func Previous(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
