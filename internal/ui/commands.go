// Package ui provides the terminal front-end for naamjap.
// This file contains tea.Cmd factories that wrap session and storage
// operations. These commands run I/O asynchronously to keep the Bubble Tea
// event loop responsive. Each command returns a corresponding message type
// defined in messages.go.
package ui

import (
	"context"
	"time"

	"naamjap/internal/datekey"
	"naamjap/internal/focus"
	"naamjap/internal/notify"
	"naamjap/internal/reports"
	"naamjap/internal/session"
	"naamjap/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Counter Commands
// =============================================================================

// loadCounterCmd returns a command that loads the counter, mantras and malas.
func loadCounterCmd(ctx context.Context, m *session.Machine) tea.Cmd {
	return func() tea.Msg {
		st, err := m.State(ctx)
		if err != nil {
			return counterLoadedMsg{err: err}
		}
		mantras, err := m.Mantras(ctx)
		if err != nil {
			return counterLoadedMsg{state: st, err: err}
		}
		malas, err := m.MalaCount(ctx)
		if err != nil {
			return counterLoadedMsg{state: st, mantras: mantras, err: err}
		}
		mood, err := m.Mood(ctx)
		return counterLoadedMsg{state: st, mantras: mantras, malas: malas, mood: mood, err: err}
	}
}

// tapCmd returns a command that applies one increment.
func tapCmd(ctx context.Context, m *session.Machine) tea.Cmd {
	return func() tea.Msg {
		res, err := m.Increment(ctx)
		return tappedMsg{result: res, err: err}
	}
}

// ackCmd waits out the acknowledgment window.
func ackCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ackElapsedMsg{}
	})
}

// finishCycleCmd returns a command that opens the next cycle.
func finishCycleCmd(ctx context.Context, m *session.Machine) tea.Cmd {
	return func() tea.Msg {
		st, err := m.FinishCycle(ctx)
		return cycleFinishedMsg{state: st, err: err}
	}
}

// switchMantraCmd returns a command that selects a mantra, or adds it to
// the list first when add is set. The store is snapshotted first so the
// switch can be undone.
func switchMantraCmd(ctx context.Context, m *session.Machine, repo *storage.Repository, name string, add bool) tea.Cmd {
	return func() tea.Msg {
		before, err := repo.Snapshot(ctx)
		if err != nil {
			return mantraSwitchedMsg{name: name, added: add, err: err}
		}
		var st storage.CounterState
		if add {
			st, err = m.AddMantra(ctx, name)
		} else {
			st, err = m.SwitchMantra(ctx, name)
		}
		return mantraSwitchedMsg{state: st, name: name, added: add, before: before, err: err}
	}
}

// setTargetCmd returns a command that saves a new default target.
func setTargetCmd(ctx context.Context, m *session.Machine, target int) tea.Cmd {
	return func() tea.Msg {
		err := m.SetDefaultTarget(ctx, target)
		return targetSetMsg{target: target, err: err}
	}
}

// resetTodayCmd returns a command that resets today's practice.
// The store is snapshotted first so the reset can be undone.
func resetTodayCmd(ctx context.Context, m *session.Machine, repo *storage.Repository, clock datekey.Clock) tea.Cmd {
	return func() tea.Msg {
		before, err := repo.Snapshot(ctx)
		if err != nil {
			return resetDoneMsg{err: err}
		}
		res, err := m.ResetDate(ctx, datekey.Key(clock.Now()))
		return resetDoneMsg{result: res, before: before, err: err}
	}
}

// setMoodCmd returns a command that saves the session mood.
func setMoodCmd(ctx context.Context, m *session.Machine, name string) tea.Cmd {
	return func() tea.Msg {
		mood, err := m.SetMood(ctx, name)
		return moodSetMsg{mood: mood, err: err}
	}
}

// =============================================================================
// Focus Timer Commands
// =============================================================================

// loadFocusCmd returns a command that loads the focus timer. Loading stops
// a timer that has run out.
func loadFocusCmd(ctx context.Context, t *focus.Timer, finished bool) tea.Cmd {
	return func() tea.Msg {
		st, err := t.State(ctx)
		return focusLoadedMsg{state: st, finished: finished, err: err}
	}
}

// startFocusCmd returns a command that starts a fresh countdown of d.
func startFocusCmd(ctx context.Context, t *focus.Timer, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		st, err := t.Start(ctx, d)
		return focusLoadedMsg{state: st, err: err}
	}
}

// toggleFocusCmd returns a command that pauses or resumes the timer.
func toggleFocusCmd(ctx context.Context, t *focus.Timer) tea.Cmd {
	return func() tea.Msg {
		st, err := t.Toggle(ctx)
		return focusLoadedMsg{state: st, err: err}
	}
}

// =============================================================================
// Stats and History Commands
// =============================================================================

// loadStatsCmd returns a command that rebuilds the summary and one period report.
func loadStatsCmd(ctx context.Context, gen *reports.Generator, period reports.Period, clock datekey.Clock) tea.Cmd {
	return func() tea.Msg {
		now := clock.Now()
		summary, err := gen.Summary(ctx, now)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		report, err := gen.Generate(ctx, period, now)
		return statsLoadedMsg{summary: summary, report: report, err: err}
	}
}

// loadHistoryCmd returns a command that loads session history.
func loadHistoryCmd(ctx context.Context, m *session.Machine) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.History(ctx)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// =============================================================================
// Reminder Commands
// =============================================================================

// reminderTickCmd schedules the next due-reminder check.
func reminderTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

// dispatchRemindersCmd delivers every reminder that is due at now.
func dispatchRemindersCmd(ctx context.Context, d *notify.Dispatcher, now time.Time) tea.Cmd {
	return func() tea.Msg {
		sent, err := d.DispatchDue(ctx, now)
		return remindersDispatchedMsg{sent: sent, err: err}
	}
}

// =============================================================================
// Undo/Redo Commands
// =============================================================================

func undoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Undo()
		return undoResultMsg{desc: desc, err: err}
	}
}

func redoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Redo()
		return redoResultMsg{desc: desc, err: err}
	}
}
