// Package focus implements the countdown timer shown beside the counter.
//
// Only transitions are persisted. While running, the remaining time is
// derived from StartedAt, so the timer keeps counting across restarts.
package focus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"naamjap/internal/datekey"
	"naamjap/internal/storage"
)

// Options are the offered timer lengths in minutes.
var Options = []int{5, 10, 15}

// DefaultDuration is the length used before a timer was ever started.
const DefaultDuration = 10 * time.Minute

// MaxDuration bounds Start.
const MaxDuration = 24 * time.Hour

// State is a snapshot of the timer. Remaining is measured at StartedAt
// while Running, and is the frozen value otherwise.
type State struct {
	Duration  time.Duration
	Remaining time.Duration
	Running   bool
	StartedAt time.Time
}

// RemainingAt returns the time left at now.
func (s State) RemainingAt(now time.Time) time.Duration {
	if !s.Running {
		return max(s.Remaining, 0)
	}
	return max(s.Remaining-now.Sub(s.StartedAt), 0)
}

// Expired reports whether a running timer has reached zero at now.
func (s State) Expired(now time.Time) bool {
	return s.Running && s.RemainingAt(now) == 0
}

// Format renders the time left at now as MM:SS.
func (s State) Format(now time.Time) string {
	left := s.RemainingAt(now).Round(time.Second)
	secs := int(left / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Timer persists the focus timer through the repository.
type Timer struct {
	repo   *storage.Repository
	clock  datekey.Clock
	logger *slog.Logger
}

// New creates a Timer.
func New(repo *storage.Repository, clock datekey.Clock, logger *slog.Logger) *Timer {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Timer{repo: repo, clock: clock, logger: logger}
}

// State loads the timer. A running timer that has run out is stopped at
// zero and saved.
func (t *Timer) State(ctx context.Context) (State, error) {
	rec, ok, err := t.repo.FocusTimer(ctx)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{Duration: DefaultDuration, Remaining: DefaultDuration}, nil
	}
	st := fromRecord(rec)
	if st.Expired(t.clock()) {
		st = State{Duration: st.Duration}
		if err := t.save(ctx, st); err != nil {
			return State{}, err
		}
		t.logger.Info("focus timer finished", "duration", st.Duration)
	}
	return st, nil
}

// Start begins a fresh countdown of d.
func (t *Timer) Start(ctx context.Context, d time.Duration) (State, error) {
	if d <= 0 || d > MaxDuration {
		return State{}, fmt.Errorf("invalid focus duration %s", d)
	}
	st := State{Duration: d, Remaining: d, Running: true, StartedAt: t.clock()}
	if err := t.save(ctx, st); err != nil {
		return State{}, err
	}
	t.logger.Debug("focus timer started", "duration", d)
	return st, nil
}

// Toggle pauses a running timer or resumes a paused one. Resuming a
// finished timer starts it over from its full duration.
func (t *Timer) Toggle(ctx context.Context) (State, error) {
	st, err := t.State(ctx)
	if err != nil {
		return State{}, err
	}
	now := t.clock()
	if st.Running {
		st = State{Duration: st.Duration, Remaining: st.RemainingAt(now)}
	} else {
		if st.Remaining <= 0 {
			st.Remaining = st.Duration
		}
		st.Running = true
		st.StartedAt = now
	}
	if err := t.save(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (t *Timer) save(ctx context.Context, st State) error {
	if err := t.repo.SaveFocusTimer(ctx, toRecord(st)); err != nil {
		return fmt.Errorf("save focus timer: %w", err)
	}
	return nil
}

func fromRecord(rec storage.FocusTimerRecord) State {
	st := State{
		Duration:  time.Duration(rec.Duration) * time.Second,
		Remaining: time.Duration(rec.Remaining) * time.Second,
		Running:   rec.Running,
	}
	if st.Duration <= 0 {
		st.Duration = DefaultDuration
	}
	if rec.Running && rec.StartedAt > 0 {
		st.StartedAt = time.UnixMilli(rec.StartedAt)
	} else {
		st.Running = false
	}
	return st
}

func toRecord(st State) storage.FocusTimerRecord {
	rec := storage.FocusTimerRecord{
		Duration:  int(st.Duration / time.Second),
		Remaining: int(st.Remaining / time.Second),
		Running:   st.Running,
	}
	if st.Running {
		rec.StartedAt = st.StartedAt.UnixMilli()
	}
	return rec
}
