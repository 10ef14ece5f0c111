package types

import "time"

// DateOnly truncates t to midnight in its own location. Subscription expiry
// is compared at date granularity while trial expiry is compared at timestamp
// granularity; helpers here make that asymmetry explicit at call sites.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddMonthsClamped adds n calendar months to t preserving the day of month
// where possible. When the target month is shorter, the day is clamped to the
// last valid day of that month (Jan 31 + 1 month → Feb 28, or Feb 29 in leap
// years). This intentionally differs from time.Time.AddDate, which normalizes
// the overflow into the following month.
func AddMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// First of the target month, then clamp the day.
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the number of whole days from `from` to `to`,
// comparing at date granularity. Negative when `to` is in the past.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from.In(to.Location()))).Hours() / 24)
}
