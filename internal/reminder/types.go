// Package reminder turns a reminder configuration into daily trigger times
// and keeps the installed set of notification triggers in step with it.
package reminder

import (
	"fmt"
	"strconv"
	"strings"

	"naamjap/internal/storage"
)

const minutesPerDay = 24 * 60

// DefaultIntervalMinutes is the interval preselected for new users.
const DefaultIntervalMinutes = 15

// IntervalOptions are the intervals offered for selection.
var IntervalOptions = []int{15, 30, 45, 60, 90, 120}

// TimeOfDay is a wall-clock hour and minute.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Valid reports whether t names a real time of day.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// timeOfDayFromMinutes wraps m into a single day.
func timeOfDayFromMinutes(m int) TimeOfDay {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	t := TimeOfDay{Hour: hour, Minute: minute}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("time %q out of range", s)
	}
	return t, nil
}

// WindowID identifies one of the fixed reminder windows.
type WindowID string

// Window is a half-open local time range [Start, End) in minutes since
// midnight. End may be 1440 for a window running to midnight.
type Window struct {
	ID    WindowID
	Label string
	Start int
	End   int
}

var windowTable = []Window{
	{ID: "6-9", Label: "6 AM - 9 AM", Start: 6 * 60, End: 9 * 60},
	{ID: "9-12", Label: "9 AM - 12 PM", Start: 9 * 60, End: 12 * 60},
	{ID: "12-15", Label: "12 PM - 3 PM", Start: 12 * 60, End: 15 * 60},
	{ID: "15-18", Label: "3 PM - 6 PM", Start: 15 * 60, End: 18 * 60},
	{ID: "18-21", Label: "6 PM - 9 PM", Start: 18 * 60, End: 21 * 60},
	{ID: "21-24", Label: "9 PM - 12 AM", Start: 21 * 60, End: 24 * 60},
	{ID: "0-4", Label: "12 AM - 4 AM", Start: 0, End: 4 * 60},
}

// Windows returns the window table in display order.
func Windows() []Window {
	return append([]Window(nil), windowTable...)
}

// LookupWindow finds a window by ID.
func LookupWindow(id WindowID) (Window, bool) {
	for _, w := range windowTable {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// ResolveWindows maps IDs to windows, skipping unknown IDs.
func ResolveWindows(ids []WindowID) []Window {
	out := make([]Window, 0, len(ids))
	for _, id := range ids {
		if w, ok := LookupWindow(id); ok {
			out = append(out, w)
		}
	}
	return out
}

// DefaultWindowIDs returns the windows active for new users (6 AM to 9 PM).
func DefaultWindowIDs() []WindowID {
	ids := make([]WindowID, 0, 5)
	for _, w := range windowTable[:5] {
		ids = append(ids, w.ID)
	}
	return ids
}

// Mode is either IntervalMode or CustomMode.
type Mode interface {
	isMode()
	// Name is the persisted mode name.
	Name() string
}

// IntervalMode fires every IntervalMinutes within each selected window.
type IntervalMode struct {
	IntervalMinutes int
	Windows         []WindowID
}

// CustomMode fires at each listed time.
type CustomMode struct {
	Times []TimeOfDay
}

func (IntervalMode) isMode() {}
func (CustomMode) isMode() {}

// Name implements Mode.
func (IntervalMode) Name() string { return storage.ReminderModeInterval }

// Name implements Mode.
func (CustomMode) Name() string { return storage.ReminderModeCustom }

// Config is a complete reminder configuration.
type Config struct {
	Mode         Mode
	SoundEnabled bool
}

// DefaultConfig is the configuration for new users.
func DefaultConfig() Config {
	return Config{
		Mode: IntervalMode{
			IntervalMinutes: DefaultIntervalMinutes,
			Windows:         DefaultWindowIDs(),
		},
		SoundEnabled: true,
	}
}

// ValidationError reports a configuration that cannot be scheduled.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reminder %s: %s", e.Field, e.Reason)
}

// Validate checks that cfg can produce at least one trigger.
func (c Config) Validate() error {
	switch m := c.Mode.(type) {
	case IntervalMode:
		if m.IntervalMinutes <= 0 {
			return &ValidationError{Field: "interval", Reason: "must be positive"}
		}
		if len(m.Windows) == 0 {
			return &ValidationError{Field: "windows", Reason: "select at least one active time block"}
		}
		for _, id := range m.Windows {
			if _, ok := LookupWindow(id); !ok {
				return &ValidationError{Field: "windows", Reason: fmt.Sprintf("unknown window %q", id)}
			}
		}
	case CustomMode:
		if len(m.Times) == 0 {
			return &ValidationError{Field: "times", Reason: "add at least one custom time"}
		}
		for _, t := range m.Times {
			if !t.Valid() {
				return &ValidationError{Field: "times", Reason: fmt.Sprintf("invalid time %s", t)}
			}
		}
	case nil:
		return &ValidationError{Field: "mode", Reason: "not set"}
	default:
		return &ValidationError{Field: "mode", Reason: fmt.Sprintf("unsupported mode %T", m)}
	}
	return nil
}
