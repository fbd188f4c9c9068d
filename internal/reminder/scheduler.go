package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"naamjap/internal/datekey"
	"naamjap/internal/storage"
)

// Notification text shown for every reminder.
const (
	DefaultTitle   = "Naam Jap"
	DefaultMessage = "Time for Naam Jap"
)

// ErrPermissionDenied is returned when the user refused notifications.
var ErrPermissionDenied = errors.New("notification permission denied")

// Trigger is one scheduled notification.
type Trigger struct {
	ID          string    `json:"id"`
	When        time.Time `json:"when"`
	RepeatDaily bool      `json:"repeatDaily"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Sound       bool      `json:"sound"`
}

// Notifier installs and cancels triggers.
type Notifier interface {
	CreateTrigger(ctx context.Context, t Trigger) error
	CancelTrigger(ctx context.Context, id string) error
	RequestPermission(ctx context.Context) (bool, error)
}

// InstallError lists triggers that could not be installed. The triggers
// that did install are still recorded.
type InstallError struct {
	Failed    map[string]error
	Installed int
}

func (e *InstallError) Error() string {
	ids := e.ids()
	return fmt.Sprintf("failed to install %d of %d reminders: %s",
		len(ids), len(ids)+e.Installed, strings.Join(ids, ", "))
}

// Unwrap returns the per-trigger errors in ID order.
func (e *InstallError) Unwrap() []error {
	ids := e.ids()
	errs := make([]error, 0, len(ids))
	for _, id := range ids {
		errs = append(errs, e.Failed[id])
	}
	return errs
}

func (e *InstallError) ids() []string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Settings is the full persisted reminder configuration: the active mode
// plus the remembered values of the inactive one.
type Settings struct {
	Mode         string
	Interval     IntervalMode
	Custom       CustomMode
	SoundEnabled bool
}

// DefaultSettings is the configuration for new users.
func DefaultSettings() Settings {
	def := DefaultConfig()
	return Settings{
		Mode:         storage.ReminderModeInterval,
		Interval:     def.Mode.(IntervalMode),
		SoundEnabled: def.SoundEnabled,
	}
}

// Config returns the active configuration.
func (s Settings) Config() Config {
	if s.Mode == storage.ReminderModeCustom {
		return Config{Mode: s.Custom, SoundEnabled: s.SoundEnabled}
	}
	return Config{Mode: s.Interval, SoundEnabled: s.SoundEnabled}
}

// With makes cfg the active configuration, keeping the other mode's values.
func (s Settings) With(cfg Config) Settings {
	switch m := cfg.Mode.(type) {
	case IntervalMode:
		s.Interval = m
	case CustomMode:
		s.Custom = m
	}
	if cfg.Mode != nil {
		s.Mode = cfg.Mode.Name()
	}
	s.SoundEnabled = cfg.SoundEnabled
	return s
}

func settingsFromRecord(rec storage.ReminderRecord) Settings {
	s := Settings{
		Mode:         rec.Mode,
		Interval:     IntervalMode{IntervalMinutes: rec.IntervalMinutes},
		SoundEnabled: rec.SoundEnabled,
	}
	for _, id := range rec.ActiveWindows {
		s.Interval.Windows = append(s.Interval.Windows, WindowID(id))
	}
	for _, t := range rec.CustomTimes {
		s.Custom.Times = append(s.Custom.Times, TimeOfDay{Hour: t.Hour, Minute: t.Minute})
	}
	return s
}

func (s Settings) record() storage.ReminderRecord {
	rec := storage.ReminderRecord{
		Mode:            s.Mode,
		IntervalMinutes: s.Interval.IntervalMinutes,
		ActiveWindows:   []string{},
		CustomTimes:     []storage.TimeOfDayRecord{},
		SoundEnabled:    s.SoundEnabled,
	}
	for _, id := range s.Interval.Windows {
		rec.ActiveWindows = append(rec.ActiveWindows, string(id))
	}
	for _, t := range s.Custom.Times {
		rec.CustomTimes = append(rec.CustomTimes, storage.TimeOfDayRecord{Hour: t.Hour, Minute: t.Minute})
	}
	return rec
}

// Status is a read-only view of the scheduler.
type Status struct {
	Settings  Settings
	Scheduled storage.ScheduledSet
	Enabled   bool
}

// Scheduler reconciles installed triggers with the reminder configuration.
type Scheduler struct {
	repo     *storage.Repository
	notifier Notifier
	clock    datekey.Clock
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. A nil logger discards output.
func NewScheduler(repo *storage.Repository, notifier Notifier, clock datekey.Clock, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{repo: repo, notifier: notifier, clock: clock, logger: logger}
}

// Settings loads the persisted configuration, filling gaps with defaults.
func (s *Scheduler) Settings(ctx context.Context) (Settings, error) {
	rec, err := s.repo.LoadReminderRecord(ctx, DefaultSettings().record())
	if err != nil {
		return Settings{}, err
	}
	return settingsFromRecord(rec), nil
}

// SaveSettings persists settings without touching installed triggers.
func (s *Scheduler) SaveSettings(ctx context.Context, settings Settings) error {
	return s.repo.SaveReminderRecord(ctx, settings.record())
}

// Status returns the configuration, installed IDs and enabled flag.
func (s *Scheduler) Status(ctx context.Context) (Status, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return Status{}, err
	}
	set, err := s.repo.ScheduledSet(ctx)
	if err != nil {
		return Status{}, err
	}
	enabled, err := s.repo.RemindersEnabled(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{Settings: settings, Scheduled: set, Enabled: enabled}, nil
}

// Apply replaces every installed trigger with the plan for cfg.
//
// Nothing changes when cfg is invalid or permission is refused. Otherwise
// the previous triggers are cancelled, the new ones installed, and the
// installed IDs, cfg and the enabled flag are persisted. If some triggers
// fail to install the rest are still recorded and an *InstallError is
// returned. Previous IDs that could not be cancelled stay in the persisted
// set so a later Apply or Stop cancels them.
func (s *Scheduler) Apply(ctx context.Context, cfg Config) (storage.ScheduledSet, error) {
	if err := cfg.Validate(); err != nil {
		return storage.ScheduledSet{}, err
	}

	granted, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		return storage.ScheduledSet{}, fmt.Errorf("request permission: %w", err)
	}
	if !granted {
		return storage.ScheduledSet{}, ErrPermissionDenied
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return storage.ScheduledSet{}, err
	}
	stale, err := s.cancelInstalled(ctx)
	if err != nil {
		return storage.ScheduledSet{}, err
	}

	times := Plan(cfg)
	instants := ToAbsoluteInstants(times, s.clock.Now())
	prefix := cfg.Mode.Name()

	installed := make([]string, 0, len(times))
	failed := map[string]error{}
	for i, t := range times {
		id := triggerID(prefix, t, i)
		trig := Trigger{
			ID:          id,
			When:        instants[i],
			RepeatDaily: true,
			Title:       DefaultTitle,
			Message:     DefaultMessage,
			Sound:       cfg.SoundEnabled,
		}
		if err := s.notifier.CreateTrigger(ctx, trig); err != nil {
			s.logger.Warn("install reminder failed", "id", id, "error", err)
			failed[id] = err
			continue
		}
		installed = append(installed, id)
	}

	set := storage.ScheduledSet{IntervalIDs: []string{}, CustomIDs: []string{}}
	if _, ok := cfg.Mode.(CustomMode); ok {
		set.CustomIDs = installed
	} else {
		set.IntervalIDs = installed
	}
	set.IntervalIDs = appendMissing(set.IntervalIDs, stale.IntervalIDs)
	set.CustomIDs = appendMissing(set.CustomIDs, stale.CustomIDs)

	if err := s.repo.SaveScheduledSet(ctx, set); err != nil {
		return storage.ScheduledSet{}, fmt.Errorf("save scheduled reminders: %w", err)
	}
	if err := s.repo.SaveReminderRecord(ctx, settings.With(cfg).record()); err != nil {
		return storage.ScheduledSet{}, fmt.Errorf("save reminder settings: %w", err)
	}
	if err := s.repo.SetRemindersEnabled(ctx, len(installed) > 0); err != nil {
		return storage.ScheduledSet{}, fmt.Errorf("save reminder flag: %w", err)
	}

	s.logger.Info("reminders scheduled", "mode", prefix, "installed", len(installed), "failed", len(failed))
	if len(failed) > 0 {
		return set, &InstallError{Failed: failed, Installed: len(installed)}
	}
	return set, nil
}

// Stop cancels every installed trigger and disables reminders. The
// configuration is kept.
func (s *Scheduler) Stop(ctx context.Context) error {
	stale, err := s.cancelInstalled(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.SaveScheduledSet(ctx, stale); err != nil {
		return fmt.Errorf("save scheduled reminders: %w", err)
	}
	if err := s.repo.SetRemindersEnabled(ctx, false); err != nil {
		return fmt.Errorf("save reminder flag: %w", err)
	}
	s.logger.Info("reminders stopped")
	return nil
}

// cancelInstalled cancels every persisted ID and returns the ones whose
// cancel failed. Failures are logged, not returned.
func (s *Scheduler) cancelInstalled(ctx context.Context) (storage.ScheduledSet, error) {
	set, err := s.repo.ScheduledSet(ctx)
	if err != nil {
		return storage.ScheduledSet{}, err
	}
	var stale storage.ScheduledSet
	cancel := func(ids []string) []string {
		var left []string
		for _, id := range ids {
			if err := s.notifier.CancelTrigger(ctx, id); err != nil {
				s.logger.Warn("cancel reminder failed", "id", id, "error", err)
				left = append(left, id)
			}
		}
		return left
	}
	stale.IntervalIDs = cancel(set.IntervalIDs)
	stale.CustomIDs = cancel(set.CustomIDs)
	return stale, nil
}

// appendMissing appends the IDs from extra that ids does not hold yet.
func appendMissing(ids, extra []string) []string {
	for _, id := range extra {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// triggerID names the i-th planned trigger, e.g. "interval-0915-1".
func triggerID(prefix string, t TimeOfDay, i int) string {
	return fmt.Sprintf("%s-%02d%02d-%d", prefix, t.Hour, t.Minute, i)
}
