// Package goals resolves the effective daily chant target from a default
// target and a sparse per-weekday override map.
package goals

import (
	"fmt"
	"strings"
	"time"

	"naamjap/internal/datekey"
)

// DefaultTarget is one mala.
const DefaultTarget = 108

// MaxTarget bounds user-entered targets.
const MaxTarget = 100000

// DailyGoals maps a weekday (0 = Sunday) to a target override.
type DailyGoals map[int]int

// EffectiveTarget returns goals[weekday(today)] when present and positive,
// otherwise defaultTarget. A non-positive default falls back to DefaultTarget.
func EffectiveTarget(defaultTarget int, goals DailyGoals, today time.Time) int {
	if defaultTarget <= 0 {
		defaultTarget = DefaultTarget
	}
	if target, ok := goals[datekey.Weekday(today)]; ok && target > 0 {
		return target
	}
	return defaultTarget
}

// Set stores an override for weekday after validating both values.
func (g DailyGoals) Set(weekday, target int) error {
	if err := ValidateWeekday(weekday); err != nil {
		return err
	}
	if err := ValidateTarget(target); err != nil {
		return err
	}
	g[weekday] = target
	return nil
}

// Clear removes the override for weekday.
func (g DailyGoals) Clear(weekday int) {
	delete(g, weekday)
}

// Validate checks every entry.
func (g DailyGoals) Validate() error {
	for weekday, target := range g {
		if err := ValidateWeekday(weekday); err != nil {
			return err
		}
		if err := ValidateTarget(target); err != nil {
			return fmt.Errorf("%s: %w", time.Weekday(weekday), err)
		}
	}
	return nil
}

// ValidateTarget checks a user-entered target.
func ValidateTarget(target int) error {
	if target <= 0 {
		return fmt.Errorf("target must be positive")
	}
	if target > MaxTarget {
		return fmt.Errorf("target too large (max %d)", MaxTarget)
	}
	return nil
}

// ValidateWeekday checks that weekday is 0 (Sunday) through 6.
func ValidateWeekday(weekday int) error {
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("invalid weekday %d: expected 0 (Sunday) to 6 (Saturday)", weekday)
	}
	return nil
}

// ParseWeekday accepts "sun".."sat", full names, or a digit 0-6.
func ParseWeekday(s string) (int, error) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return int(d), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}
