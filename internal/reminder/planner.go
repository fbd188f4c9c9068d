package reminder

import (
	"slices"
	"time"
)

// PlanInterval expands each window into times spaced intervalMinutes apart,
// starting at the window start and stopping before its end. Overlapping
// windows may yield duplicate times and an interval that does not divide a
// window evenly leaves a short final gap; both are kept as is.
// A non-positive interval yields no times.
func PlanInterval(intervalMinutes int, windows []Window) []TimeOfDay {
	if intervalMinutes <= 0 {
		return nil
	}
	var out []TimeOfDay
	for _, w := range windows {
		for m := w.Start; m < w.End; m += intervalMinutes {
			out = append(out, timeOfDayFromMinutes(m))
		}
	}
	return out
}

// PlanCustom returns the custom times unchanged.
func PlanCustom(times []TimeOfDay) []TimeOfDay {
	return slices.Clone(times)
}

// Plan dispatches on the configuration's mode.
func Plan(cfg Config) []TimeOfDay {
	switch m := cfg.Mode.(type) {
	case IntervalMode:
		return PlanInterval(m.IntervalMinutes, ResolveWindows(m.Windows))
	case CustomMode:
		return PlanCustom(m.Times)
	default:
		return nil
	}
}

// ToAbsoluteInstants places each time on now's local day, moving it to the
// next day when it is not after now.
func ToAbsoluteInstants(times []TimeOfDay, now time.Time) []time.Time {
	out := make([]time.Time, 0, len(times))
	y, mo, d := now.Date()
	for _, t := range times {
		at := time.Date(y, mo, d, t.Hour, t.Minute, 0, 0, now.Location())
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		out = append(out, at)
	}
	return out
}

// AddCustomTime appends t unless an equal time is already present.
func AddCustomTime(times []TimeOfDay, t TimeOfDay) []TimeOfDay {
	if slices.Contains(times, t) {
		return slices.Clone(times)
	}
	return append(slices.Clone(times), t)
}

// RemoveCustomTime drops every occurrence of t.
func RemoveCustomTime(times []TimeOfDay, t TimeOfDay) []TimeOfDay {
	return slices.DeleteFunc(slices.Clone(times), func(x TimeOfDay) bool { return x == t })
}
