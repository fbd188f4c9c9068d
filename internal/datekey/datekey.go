// Package datekey converts instants to local calendar-day keys (YYYY-MM-DD)
// and builds the date ranges used by statistics and reports.
// All functions are pure; callers pass "now" explicitly.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the date key format.
const Layout = "2006-01-02"

// Clock returns the current instant. It is injected wherever wall-clock time
// is needed so tests can pin it.
type Clock func() time.Time

// Now returns the clock's time, falling back to time.Now for a nil clock.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Key returns the local calendar date of t in t's own location.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// Weekday returns the local weekday of t, 0 = Sunday.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// Parse returns the start of the local day named by key in loc.
func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", key)
	}
	return t, nil
}

// Valid reports whether key is a well-formed date key.
func Valid(key string) bool {
	_, err := time.Parse(Layout, key)
	return err == nil
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays shifts the key by n calendar days. Calendar arithmetic is used so
// DST transitions never skip or repeat a day.
func AddDays(key string, n int) (string, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", key)
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// LastN returns n keys ending at now's day, oldest first.
func LastN(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	day := StartOfDay(now)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = Key(day.AddDate(0, 0, -(n - 1 - i)))
	}
	return keys
}

// WeekOf returns the seven keys of now's week, Monday first.
func WeekOf(now time.Time) []string {
	day := StartOfDay(now)
	diffToMonday := (Weekday(day) + 6) % 7
	start := day.AddDate(0, 0, -diffToMonday)

	keys := make([]string, 7)
	for i := range keys {
		keys[i] = Key(start.AddDate(0, 0, i))
	}
	return keys
}

// MonthOf returns every key of now's calendar month.
func MonthOf(now time.Time) []string {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	days := start.AddDate(0, 1, -1).Day()

	keys := make([]string, days)
	for i := range keys {
		keys[i] = Key(start.AddDate(0, 0, i))
	}
	return keys
}

// Month identifies a calendar month.
type Month struct {
	Key   string // YYYY-MM
	Label string // Jan, Feb, ...
}

// LastNMonths returns n months ending at now's month, oldest first.
func LastNMonths(now time.Time, n int) []Month {
	if n <= 0 {
		return []Month{}
	}
	y, m, _ := now.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())

	months := make([]Month, n)
	for i := 0; i < n; i++ {
		d := first.AddDate(0, -(n - 1 - i), 0)
		months[i] = Month{Key: d.Format("2006-01"), Label: d.Format("Jan")}
	}
	return months
}

// FormatRangeLabel renders two keys as "1 Jan - 7 Jan". Keys that do not
// parse are echoed unchanged.
func FormatRangeLabel(startKey, endKey string) string {
	return fmt.Sprintf("%s - %s", dayMonth(startKey), dayMonth(endKey))
}

func dayMonth(key string) string {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return key
	}
	return t.Format("2 Jan")
}
