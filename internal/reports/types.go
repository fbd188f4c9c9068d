// Package reports summarises the chant ledger into weekly, monthly and
// yearly bar reports and an overall practice summary.
package reports

import (
	"fmt"
	"strings"
	"time"

	"naamjap/internal/stats"
)

// Period selects the span of a PeriodReport.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod accepts week, month or year (and the -ly forms).
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "weekly", "w":
		return PeriodWeek, nil
	case "month", "monthly", "m":
		return PeriodMonth, nil
	case "year", "yearly", "y":
		return PeriodYear, nil
	}
	return "", fmt.Errorf("invalid period %q: use week, month or year", s)
}

// Bar is one bucket of a report.
type Bar struct {
	Key   string `json:"key"`   // date key, month key or year
	Label string `json:"label"` // short display label, may be empty
	Value int    `json:"value"`
}

// PeriodReport is the chant total per bucket over one period.
type PeriodReport struct {
	Period      Period    `json:"period"`
	RangeLabel  string    `json:"range_label"`
	Bars        []Bar     `json:"bars"`
	Total       int       `json:"total"`
	Average     int       `json:"average"` // total / len(bars), rounded
	GeneratedAt time.Time `json:"generated_at"`
}

// Max returns the largest bar value, at least 1.
func (r *PeriodReport) Max() int {
	m := 1
	for _, b := range r.Bars {
		m = max(m, b.Value)
	}
	return m
}

// Summary is the overall practice picture as of one day.
type Summary struct {
	Date          string        `json:"date"`
	Today         int           `json:"today"`
	TodayTarget   int           `json:"today_target"`
	Streaks       stats.Streaks `json:"streaks"`
	MalaCount     int           `json:"mala_count"`
	TotalCount    int           `json:"total_count"`
	ActiveDays    int           `json:"active_days"`
	LastMantra    string        `json:"last_mantra,omitempty"`
	LastCompleted *time.Time    `json:"last_completed,omitempty"`
	Months        []Bar         `json:"months"` // recent monthly totals, oldest first
	Week          PeriodReport  `json:"week"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
