// Package storage maps the practice entities onto the key/value store.
// Numbers are stored as decimal strings, flags as "true"/"false" and
// structured values as JSON, under the stable key table in keys.go.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"naamjap/internal/goals"
	"naamjap/internal/kv"
)

const (
	backupSuffix  = ".bak"
	corruptSuffix = ".corrupt"
)

// Repository provides typed access to every persisted entity.
type Repository struct {
	store  kv.Store
	logger *slog.Logger
}

// New creates a Repository over store. A nil logger discards output.
func New(store kv.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{store: store, logger: logger}
}

// Store returns the underlying key/value store.
func (r *Repository) Store() kv.Store {
	return r.store
}

// ============================================================================
// Scalar helpers
// ============================================================================

func (r *Repository) getString(ctx context.Context, key string) (string, bool, error) {
	return r.store.Get(ctx, key)
}

func (r *Repository) getInt(ctx context.Context, key string) (int, bool, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, false, r.quarantine(ctx, key, raw, convErr)
	}
	return n, true, nil
}

func (r *Repository) setInt(ctx context.Context, key string, n int) error {
	return r.store.Set(ctx, key, strconv.Itoa(n))
}

func (r *Repository) getBool(ctx context.Context, key string) (bool, bool, error) {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok {
		return false, false, err
	}
	switch strings.TrimSpace(raw) {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	case "":
		return false, false, nil
	default:
		return false, false, r.quarantine(ctx, key, raw, fmt.Errorf("not a boolean: %q", raw))
	}
}

// quarantine moves an undecodable value aside to <key>.corrupt so the key
// reads as absent without losing the raw value.
func (r *Repository) quarantine(ctx context.Context, key, raw string, cause error) error {
	if err := r.store.Set(ctx, key+corruptSuffix, raw); err != nil {
		return err
	}
	if err := r.store.Remove(ctx, key); err != nil {
		return err
	}
	r.logger.Warn("reset corrupt value to defaults", "key", key, "preserved", key+corruptSuffix, "error", cause)
	return nil
}

func (r *Repository) setBool(ctx context.Context, key string, b bool) error {
	return r.store.Set(ctx, key, strconv.FormatBool(b))
}

// ============================================================================
// JSON helpers
// ============================================================================

// loadJSON decodes key into a fresh T. A value that does not decode is
// recovered from its backup when possible, otherwise moved aside under
// <key>.corrupt and reported as absent.
func loadJSON[T any](ctx context.Context, r *Repository, key string) (T, bool, error) {
	var zero T
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok || strings.TrimSpace(raw) == "" {
		return zero, false, err
	}

	var v T
	decodeErr := json.Unmarshal([]byte(raw), &v)
	if decodeErr == nil {
		return v, true, nil
	}

	bak, bakOK, err := r.store.Get(ctx, key+backupSuffix)
	if err != nil {
		return zero, false, err
	}
	if bakOK && strings.TrimSpace(bak) != "" {
		var fromBak T
		if err := json.Unmarshal([]byte(bak), &fromBak); err == nil {
			if err := r.store.Set(ctx, key+corruptSuffix, raw); err != nil {
				return zero, false, err
			}
			if err := r.store.Set(ctx, key, bak); err != nil {
				return zero, false, err
			}
			r.logger.Warn("recovered corrupt value from backup", "key", key, "error", decodeErr)
			return fromBak, true, nil
		}
	}

	return zero, false, r.quarantine(ctx, key, raw, decodeErr)
}

// saveJSON writes v under key, keeping the previous value as <key>.bak.
func (r *Repository) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", key, err)
	}

	// Best-effort backup before overwriting.
	if prev, ok, err := r.store.Get(ctx, key); err == nil && ok && json.Valid([]byte(prev)) {
		if err := r.store.Set(ctx, key+backupSuffix, prev); err != nil {
			r.logger.Warn("backup before save failed", "key", key, "error", err)
		}
	}

	return r.store.Set(ctx, key, string(data))
}

// ============================================================================
// Counter
// ============================================================================

// LoadCounter reads the live session. Missing fields take zero values;
// callers resolve the target.
func (r *Repository) LoadCounter(ctx context.Context) (CounterState, error) {
	var st CounterState
	var err error

	if st.Count, _, err = r.getInt(ctx, KeyCount); err != nil {
		return CounterState{}, err
	}
	if st.Count < 0 {
		st.Count = 0
	}
	if st.Target, _, err = r.getInt(ctx, KeySessionTarget); err != nil {
		return CounterState{}, err
	}
	if st.ActiveMantra, _, err = r.getString(ctx, KeyActiveMantra); err != nil {
		return CounterState{}, err
	}
	if st.SessionActive, _, err = r.getBool(ctx, KeySessionActive); err != nil {
		return CounterState{}, err
	}
	if st.SessionDateKey, _, err = r.getString(ctx, KeySessionDateKey); err != nil {
		return CounterState{}, err
	}
	return st, nil
}

// SaveCounter writes every counter field.
func (r *Repository) SaveCounter(ctx context.Context, st CounterState) error {
	if err := r.setInt(ctx, KeyCount, st.Count); err != nil {
		return err
	}
	if err := r.setInt(ctx, KeySessionTarget, st.Target); err != nil {
		return err
	}
	if err := r.store.Set(ctx, KeyActiveMantra, st.ActiveMantra); err != nil {
		return err
	}
	if err := r.setBool(ctx, KeySessionActive, st.SessionActive); err != nil {
		return err
	}
	if st.SessionDateKey == "" {
		return r.store.Remove(ctx, KeySessionDateKey)
	}
	return r.store.Set(ctx, KeySessionDateKey, st.SessionDateKey)
}

// DefaultTarget returns the user's default target, or 0 when unset.
func (r *Repository) DefaultTarget(ctx context.Context) (int, error) {
	n, _, err := r.getInt(ctx, KeyDefaultTarget)
	return n, err
}

// SaveDefaultTarget persists the default target.
func (r *Repository) SaveDefaultTarget(ctx context.Context, target int) error {
	return r.setInt(ctx, KeyDefaultTarget, target)
}

// ============================================================================
// Ledger, history, malas
// ============================================================================

// DailyCounts reads the date-key → count ledger.
func (r *Repository) DailyCounts(ctx context.Context) (map[string]int, error) {
	counts, _, err := loadJSON[map[string]int](ctx, r, KeyDailyCounts)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = map[string]int{}
	}
	return counts, nil
}

// SaveDailyCounts writes the ledger.
func (r *Repository) SaveDailyCounts(ctx context.Context, counts map[string]int) error {
	if counts == nil {
		counts = map[string]int{}
	}
	return r.saveJSON(ctx, KeyDailyCounts, counts)
}

// History reads the session history, newest first.
func (r *Repository) History(ctx context.Context) ([]HistoryEntry, error) {
	list, _, err := loadJSON[[]HistoryEntry](ctx, r, KeySessionHistory)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []HistoryEntry{}
	}
	return list, nil
}

// SaveHistory writes the history, truncated to HistoryLimit.
func (r *Repository) SaveHistory(ctx context.Context, list []HistoryEntry) error {
	if list == nil {
		list = []HistoryEntry{}
	}
	if len(list) > HistoryLimit {
		list = list[:HistoryLimit]
	}
	return r.saveJSON(ctx, KeySessionHistory, list)
}

// MalaCount reads the completed-cycle counter.
func (r *Repository) MalaCount(ctx context.Context) (int, error) {
	n, _, err := r.getInt(ctx, KeyMalaCount)
	if n < 0 {
		n = 0
	}
	return n, err
}

// SaveMalaCount writes the completed-cycle counter.
func (r *Repository) SaveMalaCount(ctx context.Context, n int) error {
	return r.setInt(ctx, KeyMalaCount, n)
}

// LastCompleted returns the mantra and time of the most recent completion.
func (r *Repository) LastCompleted(ctx context.Context) (string, time.Time, error) {
	mantra, _, err := r.getString(ctx, KeyLastCompletedMantra)
	if err != nil {
		return "", time.Time{}, err
	}
	raw, ok, err := r.getString(ctx, KeyLastCompletedAt)
	if err != nil || !ok || raw == "" {
		return mantra, time.Time{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		r.logger.Warn("ignoring malformed timestamp", "key", KeyLastCompletedAt, "value", raw)
		return mantra, time.Time{}, nil
	}
	return mantra, at, nil
}

// SaveLastCompleted records a completion. A zero time clears both fields.
func (r *Repository) SaveLastCompleted(ctx context.Context, mantra string, at time.Time) error {
	if at.IsZero() {
		if err := r.store.Set(ctx, KeyLastCompletedMantra, ""); err != nil {
			return err
		}
		return r.store.Set(ctx, KeyLastCompletedAt, "")
	}
	if err := r.store.Set(ctx, KeyLastCompletedMantra, mantra); err != nil {
		return err
	}
	return r.store.Set(ctx, KeyLastCompletedAt, at.Format(time.RFC3339Nano))
}

// ============================================================================
// Goals and mantras
// ============================================================================

// DailyGoals reads the per-weekday overrides.
func (r *Repository) DailyGoals(ctx context.Context) (goals.DailyGoals, error) {
	g, _, err := loadJSON[goals.DailyGoals](ctx, r, KeyDailyGoals)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = goals.DailyGoals{}
	}
	return g, nil
}

// SaveDailyGoals writes the per-weekday overrides.
func (r *Repository) SaveDailyGoals(ctx context.Context, g goals.DailyGoals) error {
	if g == nil {
		g = goals.DailyGoals{}
	}
	return r.saveJSON(ctx, KeyDailyGoals, g)
}

// Mantras reads the mantra list; found is false when none was ever saved.
func (r *Repository) Mantras(ctx context.Context) ([]string, bool, error) {
	return loadJSON[[]string](ctx, r, KeyMantraList)
}

// SaveMantras writes the mantra list.
func (r *Repository) SaveMantras(ctx context.Context, list []string) error {
	if list == nil {
		list = []string{}
	}
	return r.saveJSON(ctx, KeyMantraList, list)
}

// CurrentMood returns the mood stamped on completed sessions.
func (r *Repository) CurrentMood(ctx context.Context) (string, bool, error) {
	mood, ok, err := r.getString(ctx, KeyCurrentMood)
	if err != nil || !ok || strings.TrimSpace(mood) == "" {
		return "", false, err
	}
	return mood, true, nil
}

// SaveCurrentMood stores the current mood.
func (r *Repository) SaveCurrentMood(ctx context.Context, mood string) error {
	return r.store.Set(ctx, KeyCurrentMood, mood)
}

// FocusTimer reads the focus timer.
func (r *Repository) FocusTimer(ctx context.Context) (FocusTimerRecord, bool, error) {
	return loadJSON[FocusTimerRecord](ctx, r, KeyFocusTimer)
}

// SaveFocusTimer writes the focus timer.
func (r *Repository) SaveFocusTimer(ctx context.Context, rec FocusTimerRecord) error {
	return r.saveJSON(ctx, KeyFocusTimer, rec)
}

// ============================================================================
// Reminders
// ============================================================================

// LoadReminderRecord reads the reminder configuration. Fields never
// persisted take their value from def.
func (r *Repository) LoadReminderRecord(ctx context.Context, def ReminderRecord) (ReminderRecord, error) {
	rec := def

	mode, ok, err := r.getString(ctx, KeyReminderMode)
	if err != nil {
		return ReminderRecord{}, err
	}
	if ok && (mode == ReminderModeInterval || mode == ReminderModeCustom) {
		rec.Mode = mode
	}

	if n, ok, err := r.getInt(ctx, KeyReminderInterval); err != nil {
		return ReminderRecord{}, err
	} else if ok {
		rec.IntervalMinutes = n
	}

	if ws, ok, err := loadJSON[[]string](ctx, r, KeyReminderActiveWindows); err != nil {
		return ReminderRecord{}, err
	} else if ok {
		rec.ActiveWindows = ws
		if rec.ActiveWindows == nil {
			rec.ActiveWindows = []string{}
		}
	}

	if ts, ok, err := loadJSON[[]TimeOfDayRecord](ctx, r, KeyReminderCustomTimes); err != nil {
		return ReminderRecord{}, err
	} else if ok {
		rec.CustomTimes = ts
	}

	if b, ok, err := r.getBool(ctx, KeyReminderSound); err != nil {
		return ReminderRecord{}, err
	} else if ok {
		rec.SoundEnabled = b
	}

	return rec, nil
}

// SaveReminderRecord writes the reminder configuration.
func (r *Repository) SaveReminderRecord(ctx context.Context, rec ReminderRecord) error {
	if err := r.setInt(ctx, KeyReminderInterval, rec.IntervalMinutes); err != nil {
		return err
	}
	windows := rec.ActiveWindows
	if windows == nil {
		windows = []string{}
	}
	if err := r.saveJSON(ctx, KeyReminderActiveWindows, windows); err != nil {
		return err
	}
	if err := r.setBool(ctx, KeyReminderSound, rec.SoundEnabled); err != nil {
		return err
	}
	times := rec.CustomTimes
	if times == nil {
		times = []TimeOfDayRecord{}
	}
	if err := r.saveJSON(ctx, KeyReminderCustomTimes, times); err != nil {
		return err
	}
	return r.store.Set(ctx, KeyReminderMode, rec.Mode)
}

// ScheduledSet reads the trigger IDs last installed.
func (r *Repository) ScheduledSet(ctx context.Context) (ScheduledSet, error) {
	interval, _, err := loadJSON[[]string](ctx, r, KeyReminderIDs)
	if err != nil {
		return ScheduledSet{}, err
	}
	custom, _, err := loadJSON[[]string](ctx, r, KeyReminderCustomIDs)
	if err != nil {
		return ScheduledSet{}, err
	}
	return ScheduledSet{IntervalIDs: interval, CustomIDs: custom}, nil
}

// SaveScheduledSet replaces the persisted trigger IDs.
func (r *Repository) SaveScheduledSet(ctx context.Context, set ScheduledSet) error {
	interval := set.IntervalIDs
	if interval == nil {
		interval = []string{}
	}
	custom := set.CustomIDs
	if custom == nil {
		custom = []string{}
	}
	if err := r.saveJSON(ctx, KeyReminderIDs, interval); err != nil {
		return err
	}
	return r.saveJSON(ctx, KeyReminderCustomIDs, custom)
}

// RemindersEnabled reports whether reminders are switched on.
func (r *Repository) RemindersEnabled(ctx context.Context) (bool, error) {
	b, _, err := r.getBool(ctx, KeyReminderEnabled)
	return b, err
}

// SetRemindersEnabled switches reminders on or off.
func (r *Repository) SetRemindersEnabled(ctx context.Context, enabled bool) error {
	return r.setBool(ctx, KeyReminderEnabled, enabled)
}

// ============================================================================
// Snapshots
// ============================================================================

// Snapshot returns the raw value of every present key in AllKeys.
func (r *Repository) Snapshot(ctx context.Context) (map[string]string, error) {
	snap := make(map[string]string)
	for _, key := range AllKeys() {
		v, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			snap[key] = v
		}
	}
	return snap, nil
}

// RestoreSnapshot replaces every key in AllKeys with the snapshot's value,
// removing keys the snapshot does not contain. Unknown keys are ignored.
func (r *Repository) RestoreSnapshot(ctx context.Context, snap map[string]string) error {
	for _, key := range AllKeys() {
		v, ok := snap[key]
		if !ok {
			if err := r.store.Remove(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err := r.store.Set(ctx, key, v); err != nil {
			return err
		}
	}
	return nil
}
