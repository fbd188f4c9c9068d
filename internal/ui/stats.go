package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"naamjap/internal/config"
	"naamjap/internal/datekey"
	"naamjap/internal/reports"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// statsPeriods is the order the period key cycles through.
var statsPeriods = []reports.Period{reports.PeriodWeek, reports.PeriodMonth, reports.PeriodYear}

// StatsPane shows streaks, totals and a bar chart for one period.
type StatsPane struct {
	ctx     context.Context
	gen     *reports.Generator
	clock   datekey.Clock
	styles  *Styles
	period  reports.Period
	summary *reports.Summary
	report  *reports.PeriodReport

	focused bool
	width   int
	height  int

	keys StatsKeyMap
}

// NewStatsPane creates a stats pane starting on the weekly view.
func NewStatsPane(ctx context.Context, gen *reports.Generator, clock datekey.Clock, styles *Styles, keyCfg *config.KeysConfig) *StatsPane {
	return &StatsPane{
		ctx:    ctx,
		gen:    gen,
		clock:  clock,
		styles: styles,
		period: reports.PeriodWeek,
		keys:   NewStatsKeyMap(keyCfg),
	}
}

// LoadCmd returns a command that rebuilds the stats asynchronously.
func (p *StatsPane) LoadCmd() tea.Cmd {
	return loadStatsCmd(p.ctx, p.gen, p.period, p.clock)
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *StatsPane) IsFocused() bool {
	return p.focused
}

// Period returns the period being charted.
func (p *StatsPane) Period() reports.Period {
	return p.period
}

// Summary returns the last loaded summary, nil before the first load.
func (p *StatsPane) Summary() *reports.Summary {
	return p.summary
}

// NextPeriod advances week → month → year → week.
func (p *StatsPane) NextPeriod() {
	for i, period := range statsPeriods {
		if period == p.period {
			p.period = statsPeriods[(i+1)%len(statsPeriods)]
			return
		}
	}
	p.period = reports.PeriodWeek
}

// Update handles messages for the stats pane.
func (p *StatsPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			return nil
		}
		p.summary = msg.summary
		p.report = msg.report
		return nil
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, p.keys.Period) {
			p.NextPeriod()
			return p.LoadCmd()
		}
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			p.NextPeriod()
			return p.LoadCmd()
		}
	}
	return nil
}

// View renders the stats pane.
func (p *StatsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📊 STATS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if p.summary == nil || p.report == nil {
		b.WriteString(p.styles.ArchivedStyle.Render("  Loading..."))
		b.WriteString("\n")
		return p.frame(b.String())
	}

	s := p.summary
	b.WriteString(p.stat("Today:   ", fmt.Sprintf("%d / %d", s.Today, s.TodayTarget)))
	streak := p.styles.StreakStyle.Render(fmt.Sprintf("🔥 %d", s.Streaks.Current)) +
		p.styles.StatLabelStyle.Render(fmt.Sprintf("  best %d", s.Streaks.Longest))
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Streak:  ") + streak + "\n")
	b.WriteString(p.stat("Malas:   ", strconv.Itoa(s.MalaCount)))
	b.WriteString(p.stat("Total:   ", strconv.Itoa(s.TotalCount)))
	b.WriteString("\n")

	r := p.report
	b.WriteString("  " + p.styles.MantraStyle.Render(r.RangeLabel))
	b.WriteString("\n")
	b.WriteString(p.stat("Total:   ", strconv.Itoa(r.Total)))
	b.WriteString(p.stat("Average: ", strconv.Itoa(r.Average)))
	b.WriteString("\n")

	b.WriteString(p.renderBars(r))

	return p.frame(b.String())
}

func (p *StatsPane) stat(label, value string) string {
	return "  " + p.styles.StatLabelStyle.Render(label) + p.styles.StatValueStyle.Render(value) + "\n"
}

// renderBars draws one horizontal bar per bucket, keeping the most recent
// buckets when the pane is too short for all of them.
func (p *StatsPane) renderBars(r *reports.PeriodReport) string {
	bars := r.Bars
	if p.height > 0 {
		// title, separator, 4 summary rows, range, 2 totals, 2 blanks, borders
		rows := max(3, p.height-14)
		if len(bars) > rows {
			bars = bars[len(bars)-rows:]
		}
	}

	labelWidth := 0
	valueWidth := 1
	for _, bar := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(bar.Label))
		valueWidth = max(valueWidth, len(strconv.Itoa(bar.Value)))
	}
	barWidth := max(5, p.width-labelWidth-valueWidth-10)
	peak := r.Max()

	var b strings.Builder
	for _, bar := range bars {
		n := bar.Value * barWidth / peak
		if bar.Value > 0 && n == 0 {
			n = 1
		}
		label := bar.Label + strings.Repeat(" ", labelWidth-runewidth.StringWidth(bar.Label))
		b.WriteString("  " + p.styles.StatLabelStyle.Render(label) + " ")
		b.WriteString(p.styles.BarStyle.Render(strings.Repeat("▇", n)))
		b.WriteString(fmt.Sprintf(" %*d\n", valueWidth, bar.Value))
	}
	return b.String()
}

func (p *StatsPane) frame(content string) string {
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}
