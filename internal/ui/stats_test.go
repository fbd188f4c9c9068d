package ui

import (
	"context"
	"fmt"
	"testing"

	"naamjap/internal/reports"
)

func TestStatsPane_NextPeriod(t *testing.T) {
	pane := NewStatsPane(context.Background(), nil, nil, createTestStyles(), nil)

	want := []reports.Period{reports.PeriodMonth, reports.PeriodYear, reports.PeriodWeek}
	if pane.Period() != reports.PeriodWeek {
		t.Fatalf("initial period = %q, want week", pane.Period())
	}
	for _, p := range want {
		pane.NextPeriod()
		if pane.Period() != p {
			t.Errorf("NextPeriod() = %q, want %q", pane.Period(), p)
		}
	}
}

func TestStatsPane_LoadingView(t *testing.T) {
	setupTest(t)
	pane := NewStatsPane(context.Background(), nil, nil, createTestStyles(), nil)
	pane.SetSize(40, 20)

	output := pane.View()
	if !contains(output, "STATS") || !contains(output, "Loading...") {
		t.Errorf("view before load should show a placeholder, got:\n%s", output)
	}
}

func TestStatsPane_LoadedView(t *testing.T) {
	setupTest(t)
	deps := createTestDeps(t)
	selectTestMantra(t, deps, "Om")
	for i := 0; i < 2; i++ {
		if _, err := deps.Machine.Increment(context.Background()); err != nil {
			t.Fatalf("Increment() error = %v", err)
		}
	}

	pane := NewStatsPane(context.Background(), deps.Reports, deps.Clock, createTestStyles(), nil)
	pane.SetSize(50, 30)
	pane.Update(runCmd(t, pane.LoadCmd()))

	if pane.Summary() == nil || pane.Summary().Today != 2 {
		t.Fatalf("summary = %+v, want Today 2", pane.Summary())
	}
	output := pane.View()
	for _, want := range []string{"2 / 3", "Streak", "Average", "8 Wed"} {
		if !contains(output, want) {
			t.Errorf("view should contain %q, got:\n%s", want, output)
		}
	}
}

func TestStatsPane_PeriodKeyReloads(t *testing.T) {
	deps := createTestDeps(t)
	pane := NewStatsPane(context.Background(), deps.Reports, deps.Clock, createTestStyles(), nil)

	if cmd := pane.Update(keyPress("p")); cmd != nil {
		t.Error("unfocused pane should ignore the period key")
	}

	pane.SetFocused(true)
	cmd := pane.Update(keyPress("p"))
	if pane.Period() != reports.PeriodMonth {
		t.Errorf("period = %q, want month", pane.Period())
	}
	msg, ok := runCmd(t, cmd).(statsLoadedMsg)
	if !ok || msg.err != nil || msg.report.Period != reports.PeriodMonth {
		t.Errorf("period key should load the monthly report, got %+v", msg)
	}
}

func TestStatsPane_BarsKeepMostRecent(t *testing.T) {
	setupTest(t)
	pane := NewStatsPane(context.Background(), nil, nil, createTestStyles(), nil)
	pane.SetSize(50, 17)

	r := &reports.PeriodReport{Period: reports.PeriodMonth}
	for i := 1; i <= 10; i++ {
		r.Bars = append(r.Bars, reports.Bar{Label: fmt.Sprintf("b%02d", i), Value: i})
	}

	output := pane.renderBars(r)
	for _, label := range []string{"b08", "b09", "b10"} {
		if !contains(output, label) {
			t.Errorf("bars should include recent bucket %s", label)
		}
	}
	if contains(output, "b07") || contains(output, "b01") {
		t.Errorf("bars should drop older buckets, got:\n%s", output)
	}
}
