package reports

import (
	"fmt"
	"strings"
)

// barWidth is the length of the longest bar in a markdown chart.
const barWidth = 30

var periodTitles = map[Period]string{
	PeriodWeek:  "Weekly Practice",
	PeriodMonth: "Monthly Practice",
	PeriodYear:  "Yearly Practice",
}

// FormatPeriodMarkdown renders a period report with a text bar chart.
func FormatPeriodMarkdown(r *PeriodReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s: %s\n\n", periodTitles[r.Period], r.RangeLabel)
	fmt.Fprintf(&b, "- **Total:** %d\n", r.Total)
	fmt.Fprintf(&b, "- **Average:** %d\n\n", r.Average)

	b.WriteString("```\n")
	writeChart(&b, r)
	b.WriteString("```\n")

	fmt.Fprintf(&b, "\n_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}

func writeChart(b *strings.Builder, r *PeriodReport) {
	labelWidth := 0
	for _, bar := range r.Bars {
		labelWidth = max(labelWidth, len(chartLabel(bar)))
	}
	peak := r.Max()
	for _, bar := range r.Bars {
		n := bar.Value * barWidth / peak
		if bar.Value > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(b, "%-*s %s %d\n", labelWidth, chartLabel(bar), strings.Repeat("#", n), bar.Value)
	}
}

// chartLabel falls back to the key for buckets without a display label.
func chartLabel(bar Bar) string {
	if bar.Label != "" {
		return bar.Label
	}
	return bar.Key
}

// FormatSummaryMarkdown renders the overall summary.
func FormatSummaryMarkdown(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Naam Jap Summary: %s\n\n", s.Date)

	b.WriteString("## Today\n\n")
	fmt.Fprintf(&b, "- **Chants:** %d / %d\n", s.Today, s.TodayTarget)
	fmt.Fprintf(&b, "- **Current streak:** %s\n", plural(s.Streaks.Current, "day"))
	fmt.Fprintf(&b, "- **Longest streak:** %s\n\n", plural(s.Streaks.Longest, "day"))

	b.WriteString("## All Time\n\n")
	fmt.Fprintf(&b, "- **Malas completed:** %d\n", s.MalaCount)
	fmt.Fprintf(&b, "- **Total chants:** %d\n", s.TotalCount)
	fmt.Fprintf(&b, "- **Active days:** %d\n", s.ActiveDays)
	if s.LastCompleted != nil {
		fmt.Fprintf(&b, "- **Last completed:** %s (%s)\n", s.LastMantra, s.LastCompleted.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	b.WriteString("## Recent Months\n\n")
	b.WriteString("| Month | Chants |\n")
	b.WriteString("|-------|--------|\n")
	for _, m := range s.Months {
		fmt.Fprintf(&b, "| %s %s | %d |\n", m.Label, m.Key[:4], m.Value)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## This Week: %s\n\n", s.Week.RangeLabel)
	b.WriteString("```\n")
	writeChart(&b, &s.Week)
	b.WriteString("```\n")

	return b.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
