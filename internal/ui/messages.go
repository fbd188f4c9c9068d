// Package ui provides the terminal front-end for naamjap.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. All storage operations return these messages to keep
// the event loop non-blocking.
package ui

import (
	"time"

	"naamjap/internal/focus"
	"naamjap/internal/reports"
	"naamjap/internal/session"
	"naamjap/internal/storage"
)

// =============================================================================
// Undo/Redo Messages
// =============================================================================

// undoResultMsg is sent when an undo operation completes.
type undoResultMsg struct {
	desc string
	err  error
}

// redoResultMsg is sent when a redo operation completes.
type redoResultMsg struct {
	desc string
	err  error
}

// =============================================================================
// Counter Messages
// =============================================================================

// counterLoadedMsg is sent when the counter and mantra list are loaded.
type counterLoadedMsg struct {
	state   storage.CounterState
	mantras []string
	malas   int
	mood    string
	err     error
}

// tappedMsg is sent after one increment.
type tappedMsg struct {
	result session.Result
	err    error
}

// ackElapsedMsg fires when the completion acknowledgment window is over.
type ackElapsedMsg struct{}

// cycleFinishedMsg is sent once the next cycle has started.
type cycleFinishedMsg struct {
	state storage.CounterState
	err   error
}

// mantraSwitchedMsg is sent when a mantra is selected or added.
type mantraSwitchedMsg struct {
	state  storage.CounterState
	name   string
	added  bool
	before map[string]string // store snapshot taken before the switch, for undo
	err    error
}

// targetSetMsg is sent when the default target changes.
type targetSetMsg struct {
	target int
	err    error
}

// resetDoneMsg is sent after today's practice was reset.
type resetDoneMsg struct {
	result session.ResetResult
	before map[string]string // store snapshot taken before the reset, for undo
	err    error
}

// moodSetMsg is sent when the session mood changes.
type moodSetMsg struct {
	mood string
	err  error
}

// =============================================================================
// Focus Timer Messages
// =============================================================================

// focusLoadedMsg carries the focus timer after a load or transition.
// finished is set when the load was triggered by the countdown running out.
type focusLoadedMsg struct {
	state    focus.State
	finished bool
	err      error
}

// =============================================================================
// Stats and History Messages
// =============================================================================

// statsLoadedMsg is sent when the summary and period report are rebuilt.
type statsLoadedMsg struct {
	summary *reports.Summary
	report  *reports.PeriodReport
	err     error
}

// historyLoadedMsg is sent when session history is loaded.
type historyLoadedMsg struct {
	entries []storage.HistoryEntry
	err     error
}

// =============================================================================
// Reminder Messages
// =============================================================================

// reminderTickMsg triggers a check for due reminders.
type reminderTickMsg time.Time

// remindersDispatchedMsg reports how many reminders were delivered.
type remindersDispatchedMsg struct {
	sent int
	err  error
}
