// Package stats computes practice streaks from the per-day chant ledger.
package stats

import (
	"sort"
	"time"

	"naamjap/internal/datekey"
)

// Streaks holds the current and longest runs of consecutive practice days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks derives streaks from a sparse date-key → count map.
// A day counts when its value is positive. Current is zero unless today
// itself counts. Keys that are not valid dates are ignored.
func ComputeStreaks(counts map[string]int, today time.Time) Streaks {
	days := make([]time.Time, 0, len(counts))
	for key, n := range counts {
		if n <= 0 {
			continue
		}
		d, err := time.Parse(datekey.Layout, key)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return Streaks{}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if isNextDay(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return Streaks{Current: currentStreak(counts, today), Longest: longest}
}

// currentStreak walks back from today while each day counts.
func currentStreak(counts map[string]int, today time.Time) int {
	streak := 0
	day := datekey.StartOfDay(today)
	for counts[datekey.Key(day)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// isNextDay reports whether b is exactly one calendar day after a.
// Both are UTC midnights produced by time.Parse.
func isNextDay(a, b time.Time) bool {
	return a.AddDate(0, 0, 1).Equal(b)
}

// TotalCount sums all recorded chants.
func TotalCount(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		if n > 0 {
			total += n
		}
	}
	return total
}

// ActiveDays returns how many days have at least one chant.
func ActiveDays(counts map[string]int) int {
	days := 0
	for _, n := range counts {
		if n > 0 {
			days++
		}
	}
	return days
}
