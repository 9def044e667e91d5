package dashboard

import "strconv"

// Averaging intervals in seconds, finest first.
const (
	IntervalMinute      = 60
	IntervalFiveMinutes = 5 * 60
	IntervalQuarterHour = 15 * 60
	IntervalEightHours  = 8 * 3600
)

// Range presets offered by the dashboard, in days.
const (
	RangeDay   = 1
	RangeWeek  = 7
	RangeMonth = 30
	RangeYear  = 365

	// RangeMax bounds any range so the hour count cannot overflow.
	RangeMax = 100 * RangeYear
)

const hoursPerDay = 24

// IntervalFor returns the averaging interval for a look-back window of days.
// Thresholds are checked from finest to coarsest so the tightest bound wins.
// Values below one day get the finest interval.
func IntervalFor(days int) int {
	switch {
	case days <= 1:
		return IntervalMinute
	case days <= 7:
		return IntervalFiveMinutes
	case days <= 30:
		return IntervalQuarterHour
	default:
		return IntervalEightHours
	}
}

// HoursBack converts a range in days to the look-back window sent to the
// source. Ranges past RangeMax are clamped.
func HoursBack(days int) int {
	if days > RangeMax {
		days = RangeMax
	}
	return days * hoursPerDay
}

// RangeLabel returns a short label for a range, e.g. "24h" or "7d".
func RangeLabel(days int) string {
	switch days {
	case RangeDay:
		return "24h"
	case RangeYear:
		return "1y"
	}
	return strconv.Itoa(days) + "d"
}
