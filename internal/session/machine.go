// Package session owns the live chant counter: increments, completion of a
// mala, the automatic rollover into the next cycle, mantra switching and
// date-scoped resets.
//
// Every operation loads a fresh snapshot from storage, computes the next
// state and persists it before returning. Nothing is cached between calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"naamjap/internal/datekey"
	"naamjap/internal/goals"
	"naamjap/internal/storage"
)

// DefaultAckDelay is the completion acknowledgment window.
const DefaultAckDelay = 500 * time.Millisecond

// ErrMantraRequired is returned by Increment when no mantra is selected.
var ErrMantraRequired = errors.New("select a mantra first")

// Phase is the logical state of the counter.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInProgress
	PhaseCompleting
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in progress"
	case PhaseCompleting:
		return "completing"
	default:
		return "idle"
	}
}

// PhaseOf classifies a counter snapshot.
func PhaseOf(st storage.CounterState) Phase {
	switch {
	case st.Target > 0 && st.Count >= st.Target && !st.SessionActive:
		return PhaseCompleting
	case st.Count > 0:
		return PhaseInProgress
	default:
		return PhaseIdle
	}
}

// Result describes the outcome of an increment.
type Result struct {
	State     storage.CounterState
	Ignored   bool                  // count was already at target
	Completed bool                  // this tap reached the target
	Entry     *storage.HistoryEntry // set when Completed
	AckDelay  time.Duration         // wait before calling FinishCycle
}

// ResetResult reports what a date-scoped reset removed.
type ResetResult struct {
	DateKey        string
	RemovedCount   int // taps removed from the ledger
	RemovedEntries int // history entries removed
	MalaCount      int // mala counter after the reset
	CounterCleared bool
}

// Options configures a Machine. Zero values pick defaults.
type Options struct {
	Clock         datekey.Clock
	DefaultTarget int           // used when no default target was ever saved
	AckDelay      time.Duration // 0 means DefaultAckDelay
	Logger        *slog.Logger
	NewID         func() string
}

// Machine is the session state machine.
type Machine struct {
	repo          *storage.Repository
	clock         datekey.Clock
	defaultTarget int
	ackDelay      time.Duration
	logger        *slog.Logger
	newID         func() string
}

// New creates a Machine over repo.
func New(repo *storage.Repository, opts Options) *Machine {
	m := &Machine{
		repo:          repo,
		clock:         opts.Clock,
		defaultTarget: opts.DefaultTarget,
		ackDelay:      opts.AckDelay,
		logger:        opts.Logger,
		newID:         opts.NewID,
	}
	if m.defaultTarget <= 0 {
		m.defaultTarget = goals.DefaultTarget
	}
	if m.ackDelay <= 0 {
		m.ackDelay = DefaultAckDelay
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	return m
}

// AckDelay returns the configured acknowledgment window.
func (m *Machine) AckDelay() time.Duration {
	return m.ackDelay
}

// Target returns the effective target for today.
func (m *Machine) Target(ctx context.Context) (int, error) {
	return m.resolveTarget(ctx, m.clock.Now())
}

func (m *Machine) resolveTarget(ctx context.Context, now time.Time) (int, error) {
	def, err := m.repo.DefaultTarget(ctx)
	if err != nil {
		return 0, err
	}
	if def <= 0 {
		def = m.defaultTarget
	}
	g, err := m.repo.DailyGoals(ctx)
	if err != nil {
		return 0, err
	}
	return goals.EffectiveTarget(def, g, now), nil
}

// State returns the current counter. With no session in progress the
// target is resolved for today. A counter left in the completing phase
// by an interrupted process is rolled over first.
func (m *Machine) State(ctx context.Context) (storage.CounterState, error) {
	st, err := m.repo.LoadCounter(ctx)
	if err != nil {
		return storage.CounterState{}, err
	}
	if PhaseOf(st) == PhaseCompleting {
		m.logger.Info("finishing interrupted cycle", "mantra", st.ActiveMantra, "count", st.Count)
		return m.FinishCycle(ctx)
	}
	if st.Count == 0 || st.Target <= 0 {
		if st.Target, err = m.resolveTarget(ctx, m.clock.Now()); err != nil {
			return storage.CounterState{}, err
		}
	}
	return st, nil
}

// Increment applies one tap.
func (m *Machine) Increment(ctx context.Context) (Result, error) {
	st, err := m.repo.LoadCounter(ctx)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(st.ActiveMantra) == "" {
		return Result{State: st}, ErrMantraRequired
	}

	now := m.clock.Now()
	if st.Count == 0 || st.Target <= 0 {
		if st.Target, err = m.resolveTarget(ctx, now); err != nil {
			return Result{}, err
		}
	}
	if st.Count >= st.Target {
		return Result{State: st, Ignored: true}, nil
	}

	if st.SessionDateKey == "" {
		st.SessionDateKey = datekey.Key(now)
	}
	st.Count++

	counts, err := m.repo.DailyCounts(ctx)
	if err != nil {
		return Result{}, err
	}
	counts[st.SessionDateKey]++
	if err := m.repo.SaveDailyCounts(ctx, counts); err != nil {
		return Result{}, fmt.Errorf("record tap: %w", err)
	}

	if st.Count < st.Target {
		st.SessionActive = true
		if err := m.repo.SaveCounter(ctx, st); err != nil {
			return Result{}, fmt.Errorf("save counter: %w", err)
		}
		return Result{State: st}, nil
	}

	mood, err := m.Mood(ctx)
	if err != nil {
		return Result{}, err
	}
	entry := storage.HistoryEntry{
		ID:          m.newID(),
		Mantra:      st.ActiveMantra,
		Count:       st.Count,
		Target:      st.Target,
		CompletedAt: now,
		Mood:        mood,
	}
	if err := m.prependHistory(ctx, entry); err != nil {
		return Result{}, err
	}
	mala, err := m.repo.MalaCount(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := m.repo.SaveMalaCount(ctx, mala+1); err != nil {
		return Result{}, fmt.Errorf("save mala count: %w", err)
	}
	if err := m.repo.SaveLastCompleted(ctx, st.ActiveMantra, now); err != nil {
		return Result{}, fmt.Errorf("save last completed: %w", err)
	}

	st.SessionActive = false
	if err := m.repo.SaveCounter(ctx, st); err != nil {
		return Result{}, fmt.Errorf("save counter: %w", err)
	}

	m.logger.Info("mala completed", "mantra", entry.Mantra, "target", entry.Target, "date", st.SessionDateKey, "malas", mala+1)
	return Result{State: st, Completed: true, Entry: &entry, AckDelay: m.ackDelay}, nil
}

// FinishCycle opens the next cycle after a completion. It does nothing
// unless the counter is completing.
func (m *Machine) FinishCycle(ctx context.Context) (storage.CounterState, error) {
	st, err := m.repo.LoadCounter(ctx)
	if err != nil {
		return storage.CounterState{}, err
	}
	if PhaseOf(st) != PhaseCompleting {
		return st, nil
	}

	target, err := m.resolveTarget(ctx, m.clock.Now())
	if err != nil {
		return storage.CounterState{}, err
	}
	st.Count = 0
	st.Target = target
	st.SessionDateKey = ""
	st.SessionActive = true
	if err := m.repo.SaveCounter(ctx, st); err != nil {
		return storage.CounterState{}, fmt.Errorf("save counter: %w", err)
	}
	return st, nil
}

// SwitchMantra selects name. Progress toward the current target is
// archived to history first.
func (m *Machine) SwitchMantra(ctx context.Context, name string) (storage.CounterState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.CounterState{}, ErrMantraRequired
	}

	st, err := m.repo.LoadCounter(ctx)
	if err != nil {
		return storage.CounterState{}, err
	}

	// A completing counter already has its history entry.
	if st.Count > 0 && PhaseOf(st) != PhaseCompleting {
		entry := storage.HistoryEntry{
			ID:          m.newID(),
			Mantra:      st.ActiveMantra,
			Count:       st.Count,
			Target:      st.Target,
			CompletedAt: m.clock.Now(),
			Archived:    true,
		}
		if err := m.prependHistory(ctx, entry); err != nil {
			return storage.CounterState{}, err
		}
		m.logger.Info("archived session", "mantra", entry.Mantra, "count", entry.Count, "target", entry.Target)
	}

	target, err := m.resolveTarget(ctx, m.clock.Now())
	if err != nil {
		return storage.CounterState{}, err
	}
	st = storage.CounterState{
		Count:        0,
		Target:       target,
		ActiveMantra: name,
	}
	if err := m.repo.SaveCounter(ctx, st); err != nil {
		return storage.CounterState{}, fmt.Errorf("save counter: %w", err)
	}
	return st, nil
}

// ResetDate removes everything recorded on dateKey: the ledger bucket and
// history entries completed that day. The mala count drops by one per
// removed entry, floored at zero. The
// live counter is zeroed only when dateKey is today. Calling it twice has
// the same effect as calling it once.
func (m *Machine) ResetDate(ctx context.Context, dateKey string) (ResetResult, error) {
	if !datekey.Valid(dateKey) {
		return ResetResult{}, fmt.Errorf("invalid date %q", dateKey)
	}
	now := m.clock.Now()
	res := ResetResult{DateKey: dateKey}

	counts, err := m.repo.DailyCounts(ctx)
	if err != nil {
		return ResetResult{}, err
	}
	if n, ok := counts[dateKey]; ok {
		res.RemovedCount = n
		delete(counts, dateKey)
		if err := m.repo.SaveDailyCounts(ctx, counts); err != nil {
			return ResetResult{}, fmt.Errorf("save daily counts: %w", err)
		}
	}

	history, err := m.repo.History(ctx)
	if err != nil {
		return ResetResult{}, err
	}
	kept := history[:0:0]
	for _, e := range history {
		if datekey.Key(e.CompletedAt.In(now.Location())) == dateKey {
			res.RemovedEntries++
			continue
		}
		kept = append(kept, e)
	}
	if res.RemovedEntries > 0 {
		if err := m.repo.SaveHistory(ctx, kept); err != nil {
			return ResetResult{}, fmt.Errorf("save history: %w", err)
		}
	}

	mala, err := m.repo.MalaCount(ctx)
	if err != nil {
		return ResetResult{}, err
	}
	// Every removed entry counts, archived ones included.
	if res.RemovedEntries > 0 {
		mala = max(mala-res.RemovedEntries, 0)
		if err := m.repo.SaveMalaCount(ctx, mala); err != nil {
			return ResetResult{}, fmt.Errorf("save mala count: %w", err)
		}
	}
	res.MalaCount = mala

	if _, at, err := m.repo.LastCompleted(ctx); err != nil {
		return ResetResult{}, err
	} else if !at.IsZero() && datekey.Key(at.In(now.Location())) == dateKey {
		if err := m.repo.SaveLastCompleted(ctx, "", time.Time{}); err != nil {
			return ResetResult{}, fmt.Errorf("clear last completed: %w", err)
		}
	}

	if dateKey == datekey.Key(now) {
		st, err := m.repo.LoadCounter(ctx)
		if err != nil {
			return ResetResult{}, err
		}
		target, err := m.resolveTarget(ctx, now)
		if err != nil {
			return ResetResult{}, err
		}
		st.Count = 0
		st.Target = target
		st.SessionActive = false
		st.SessionDateKey = ""
		if err := m.repo.SaveCounter(ctx, st); err != nil {
			return ResetResult{}, fmt.Errorf("save counter: %w", err)
		}
		res.CounterCleared = true
	}

	m.logger.Info("reset date", "date", dateKey, "taps", res.RemovedCount, "entries", res.RemovedEntries)
	return res, nil
}

func (m *Machine) prependHistory(ctx context.Context, entry storage.HistoryEntry) error {
	history, err := m.repo.History(ctx)
	if err != nil {
		return err
	}
	history = append([]storage.HistoryEntry{entry}, history...)
	if err := m.repo.SaveHistory(ctx, history); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
