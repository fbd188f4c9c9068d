package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"naamjap/internal/goals"
	"naamjap/internal/storage"
)

// DefaultMantras seeds the mantra list on first use.
var DefaultMantras = []string{
	"Radha Radha",
	"Ram Ram",
	"Om Namah Shivaya",
	"Waheguru",
	"Hare Krishna",
	"Om",
}

// ErrDuplicateMantra is returned when adding a name already in the list.
var ErrDuplicateMantra = errors.New("mantra already in list")

// Mantras returns the saved mantra list, or the defaults when none was saved.
func (m *Machine) Mantras(ctx context.Context) ([]string, error) {
	list, found, err := m.repo.Mantras(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]string(nil), DefaultMantras...), nil
	}
	return list, nil
}

// AddMantra puts name at the front of the list and selects it.
func (m *Machine) AddMantra(ctx context.Context, name string) (storage.CounterState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.CounterState{}, ErrMantraRequired
	}
	list, err := m.Mantras(ctx)
	if err != nil {
		return storage.CounterState{}, err
	}
	for _, existing := range list {
		if strings.EqualFold(existing, name) {
			return storage.CounterState{}, fmt.Errorf("%q: %w", name, ErrDuplicateMantra)
		}
	}
	list = append([]string{name}, list...)
	if err := m.repo.SaveMantras(ctx, list); err != nil {
		return storage.CounterState{}, fmt.Errorf("save mantras: %w", err)
	}
	return m.SwitchMantra(ctx, name)
}

// SetDefaultTarget changes the target used on days without an override.
// A session in progress keeps its target.
func (m *Machine) SetDefaultTarget(ctx context.Context, target int) error {
	if err := goals.ValidateTarget(target); err != nil {
		return err
	}
	return m.repo.SaveDefaultTarget(ctx, target)
}

// SetDailyGoal sets (target > 0) or clears (target == 0) the override for weekday.
func (m *Machine) SetDailyGoal(ctx context.Context, weekday, target int) (goals.DailyGoals, error) {
	g, err := m.repo.DailyGoals(ctx)
	if err != nil {
		return nil, err
	}
	if target == 0 {
		if err := goals.ValidateWeekday(weekday); err != nil {
			return nil, err
		}
		g.Clear(weekday)
	} else if err := g.Set(weekday, target); err != nil {
		return nil, err
	}
	if err := m.repo.SaveDailyGoals(ctx, g); err != nil {
		return nil, fmt.Errorf("save daily goals: %w", err)
	}
	return g, nil
}

// DailyGoals returns the per-weekday overrides.
func (m *Machine) DailyGoals(ctx context.Context) (goals.DailyGoals, error) {
	return m.repo.DailyGoals(ctx)
}

// History returns completed and archived sessions, newest first.
func (m *Machine) History(ctx context.Context) ([]storage.HistoryEntry, error) {
	return m.repo.History(ctx)
}

// DailyCounts returns the date-key ledger.
func (m *Machine) DailyCounts(ctx context.Context) (map[string]int, error) {
	return m.repo.DailyCounts(ctx)
}

// MalaCount returns the number of completed cycles.
func (m *Machine) MalaCount(ctx context.Context) (int, error) {
	return m.repo.MalaCount(ctx)
}

// LastCompleted returns the most recent completion, if any.
func (m *Machine) LastCompleted(ctx context.Context) (string, time.Time, error) {
	return m.repo.LastCompleted(ctx)
}
