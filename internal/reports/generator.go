package reports

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"naamjap/internal/datekey"
	"naamjap/internal/goals"
	"naamjap/internal/stats"
	"naamjap/internal/storage"
)

// recentMonths is how many months the summary lists.
const recentMonths = 6

// Generator creates reports from storage data.
type Generator struct {
	repo          *storage.Repository
	defaultTarget int
}

// NewGenerator creates a new report generator. defaultTarget applies when
// no default target was ever saved.
func NewGenerator(repo *storage.Repository, defaultTarget int) *Generator {
	return &Generator{repo: repo, defaultTarget: defaultTarget}
}

// Generate builds the report for the period containing now.
func (g *Generator) Generate(ctx context.Context, period Period, now time.Time) (*PeriodReport, error) {
	counts, err := g.repo.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}
	return Build(period, counts, now)
}

// Build computes a period report from a ledger.
func Build(period Period, counts map[string]int, now time.Time) (*PeriodReport, error) {
	var r *PeriodReport
	switch period {
	case PeriodWeek:
		r = weekReport(counts, now)
	case PeriodMonth:
		r = monthReport(counts, now)
	case PeriodYear:
		r = yearReport(counts, now)
	default:
		return nil, fmt.Errorf("unknown period %q", period)
	}
	r.GeneratedAt = now
	return r, nil
}

// weekReport covers the Monday-first week containing now.
func weekReport(counts map[string]int, now time.Time) *PeriodReport {
	keys := datekey.WeekOf(now)
	bars := make([]Bar, len(keys))
	for i, key := range keys {
		label := key
		if t, err := time.Parse(datekey.Layout, key); err == nil {
			label = t.Format("2 Mon")
		}
		bars[i] = Bar{Key: key, Label: label, Value: counts[key]}
	}
	return finish(PeriodWeek, datekey.FormatRangeLabel(keys[0], keys[len(keys)-1]), bars)
}

// monthReport covers every day of now's month, labelling every third day.
func monthReport(counts map[string]int, now time.Time) *PeriodReport {
	keys := datekey.MonthOf(now)
	bars := make([]Bar, len(keys))
	for i, key := range keys {
		bars[i] = Bar{Key: key, Value: counts[key]}
		if i%3 == 0 {
			bars[i].Label = strconv.Itoa(i + 1)
		}
	}
	return finish(PeriodMonth, now.Format("January 2006"), bars)
}

// yearReport totals the last three calendar years, now's year last.
func yearReport(counts map[string]int, now time.Time) *PeriodReport {
	startYear := now.Year() - 2
	bars := make([]Bar, 3)
	for i := range bars {
		y := strconv.Itoa(startYear + i)
		bars[i] = Bar{Key: y, Label: y}
	}
	for key, n := range counts {
		if len(key) < 4 {
			continue
		}
		year, err := strconv.Atoi(key[:4])
		if err != nil {
			continue
		}
		if idx := year - startYear; idx >= 0 && idx < len(bars) {
			bars[idx].Value += n
		}
	}
	return finish(PeriodYear, fmt.Sprintf("%d - %d", startYear, startYear+2), bars)
}

func finish(period Period, label string, bars []Bar) *PeriodReport {
	total := 0
	for _, b := range bars {
		total += b.Value
	}
	avg := 0
	if len(bars) > 0 {
		avg = int(math.Round(float64(total) / float64(len(bars))))
	}
	return &PeriodReport{
		Period:     period,
		RangeLabel: label,
		Bars:       bars,
		Total:      total,
		Average:    avg,
	}
}

// Summary builds the overall summary as of now.
func (g *Generator) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	counts, err := g.repo.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}
	mala, err := g.repo.MalaCount(ctx)
	if err != nil {
		return nil, err
	}
	def, err := g.repo.DefaultTarget(ctx)
	if err != nil {
		return nil, err
	}
	if def <= 0 {
		def = g.defaultTarget
	}
	dailyGoals, err := g.repo.DailyGoals(ctx)
	if err != nil {
		return nil, err
	}
	mantra, at, err := g.repo.LastCompleted(ctx)
	if err != nil {
		return nil, err
	}

	today := datekey.Key(now)
	s := &Summary{
		Date:        today,
		Today:       counts[today],
		TodayTarget: goals.EffectiveTarget(def, dailyGoals, now),
		Streaks:     stats.ComputeStreaks(counts, now),
		MalaCount:   mala,
		TotalCount:  stats.TotalCount(counts),
		ActiveDays:  stats.ActiveDays(counts),
		LastMantra:  mantra,
		Months:      monthTotals(counts, now),
		Week:        *weekReport(counts, now),
		GeneratedAt: now,
	}
	s.Week.GeneratedAt = now
	if !at.IsZero() {
		s.LastCompleted = &at
	}
	return s, nil
}

func monthTotals(counts map[string]int, now time.Time) []Bar {
	months := datekey.LastNMonths(now, recentMonths)
	bars := make([]Bar, len(months))
	index := make(map[string]int, len(months))
	for i, m := range months {
		bars[i] = Bar{Key: m.Key, Label: m.Label}
		index[m.Key] = i
	}
	for key, n := range counts {
		if len(key) < 7 {
			continue
		}
		if i, ok := index[key[:7]]; ok {
			bars[i].Value += n
		}
	}
	return bars
}
