package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"naamjap/internal/datekey"
	"naamjap/internal/reminder"
)

// Dispatcher delivers due triggers from a TriggerTable.
type Dispatcher struct {
	table   *TriggerTable
	desktop Desktop
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil logger discards output.
func NewDispatcher(table *TriggerTable, desktop Desktop, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{table: table, desktop: desktop, logger: logger}
}

// DispatchDue shows every trigger due at or before now. Daily triggers move
// to their next occurrence after now and one-shot triggers are dropped, so
// a trigger missed for several days fires once. It returns the number of
// notifications shown.
func (d *Dispatcher) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	var due []reminder.Trigger
	err := d.table.update(ctx, func(list []reminder.Trigger) []reminder.Trigger {
		kept := make([]reminder.Trigger, 0, len(list))
		for _, trig := range list {
			if trig.When.After(now) {
				kept = append(kept, trig)
				continue
			}
			due = append(due, trig)
			if trig.RepeatDaily {
				trig.When = nextOccurrence(trig.When, now)
				kept = append(kept, trig)
			}
		}
		return kept
	})
	if err != nil {
		return 0, fmt.Errorf("advance triggers: %w", err)
	}

	sent := 0
	var errs []error
	for _, trig := range due {
		n := Notification{Title: trig.Title, Message: trig.Message, Sound: trig.Sound}
		if err := d.desktop.Send(ctx, n); err != nil {
			d.logger.Warn("deliver reminder failed", "id", trig.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", trig.ID, err))
			continue
		}
		sent++
	}
	if sent > 0 {
		d.logger.Debug("reminders delivered", "count", sent)
	}
	return sent, errors.Join(errs...)
}

// Run polls DispatchDue every interval until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration, clock datekey.Clock) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := d.DispatchDue(ctx, clock.Now()); err != nil {
			d.logger.Error("dispatch reminders", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// nextOccurrence steps when forward in whole local days until it is after now.
func nextOccurrence(when, now time.Time) time.Time {
	for !when.After(now) {
		when = when.AddDate(0, 0, 1)
	}
	return when
}
