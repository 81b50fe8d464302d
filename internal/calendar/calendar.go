// Package calendar holds the pure date arithmetic behind day-of-year
// matching: every rule about leap years and calendar-day equality lives
// here so the stores never touch time components directly.
package calendar

import (
	"fmt"
	"time"
)

// DayOfYear returns the 1-based ordinal day of d within its year (1..366).
func DayOfYear(d time.Time) int {
	return d.YearDay()
}

// DaysInYear returns 366 for leap years, 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// SameDay reports whether a and b fall on the same year/month/day in
// their respective locations, ignoring time-of-day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey renders the calendar day of d as YYYY-MM-DD. It is the
// canonical key for answered-day bookkeeping.
func DayKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// ParseDayKey parses a YYYY-MM-DD key back into a local midnight time.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// StartOfYear returns local midnight on January 1st of the given year.
func StartOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
}

// DateForDayOfYear returns the day-th day of year. It fails rather than
// wrapping when day is outside 1..DaysInYear(year), so asking for day
// 366 of a non-leap year is an error, never a silent January 1st.
func DateForDayOfYear(day, year int) (time.Time, error) {
	if day < 1 || day > DaysInYear(year) {
		return time.Time{}, fmt.Errorf("day %d out of range for year %d (1..%d)", day, year, DaysInYear(year))
	}
	return StartOfYear(year).AddDate(0, 0, day-1), nil
}

// AddYears shifts d by n calendar years, preserving month and day.
// Feb 29 clamps to Feb 28 when the target year is not a leap year;
// there is no exact same-day equivalent, and clamping keeps the result
// inside the same month. n may be negative.
func AddYears(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	target := year + n
	if month == time.February && day == 29 && !IsLeapYear(target) {
		day = 28
	}
	hour, min, sec := d.Clock()
	return time.Date(target, month, day, hour, min, sec, d.Nanosecond(), d.Location())
}
