package storage

import "time"

// HistoryLimit caps the session history (newest first).
const HistoryLimit = 200

// CounterState is the live session.
type CounterState struct {
	Count          int    `json:"count"`
	Target         int    `json:"target"`
	ActiveMantra   string `json:"activeMantra"`
	SessionActive  bool   `json:"sessionActive"`
	SessionDateKey string `json:"sessionDateKey,omitempty"` // empty when no session is open
}

// HistoryEntry records one completed (or archived) session.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Mantra      string    `json:"mantra"`
	Count       int       `json:"count"`
	Target      int       `json:"target"`
	CompletedAt time.Time `json:"completedAt"`
	Archived    bool      `json:"archived,omitempty"` // written by a mantra switch, target not reached
	Mood        string    `json:"mood,omitempty"`
}

// FocusTimerRecord is the persisted focus timer. Durations are in seconds;
// StartedAt is Unix milliseconds and only set while running.
type FocusTimerRecord struct {
	Duration  int   `json:"duration"`
	Remaining int   `json:"remaining"`
	Running   bool  `json:"running"`
	StartedAt int64 `json:"startedAt,omitempty"`
}

// Reminder modes as persisted.
const (
	ReminderModeInterval = "interval"
	ReminderModeCustom   = "custom"
)

// TimeOfDayRecord is a persisted hour/minute pair.
type TimeOfDayRecord struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ReminderRecord is the flat, persisted form of a reminder configuration.
// The reminder package converts it to and from its typed mode.
type ReminderRecord struct {
	Mode            string
	IntervalMinutes int
	ActiveWindows   []string
	CustomTimes     []TimeOfDayRecord
	SoundEnabled    bool
}

// ScheduledSet is the set of trigger IDs last installed.
type ScheduledSet struct {
	IntervalIDs []string `json:"intervalIds"`
	CustomIDs   []string `json:"customIds"`
}

// All returns every ID in the set, interval IDs first.
func (s ScheduledSet) All() []string {
	ids := make([]string, 0, len(s.IntervalIDs)+len(s.CustomIDs))
	ids = append(ids, s.IntervalIDs...)
	return append(ids, s.CustomIDs...)
}

// Empty reports whether the set holds no IDs.
func (s ScheduledSet) Empty() bool {
	return len(s.IntervalIDs) == 0 && len(s.CustomIDs) == 0
}
