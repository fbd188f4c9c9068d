package reminder

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"naamjap/internal/kv"
	"naamjap/internal/storage"
)

// fakeNotifier records every call in order.
type fakeNotifier struct {
	calls      []string
	installed  map[string]Trigger
	deny       bool
	failCreate map[string]bool
	failCancel bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{installed: map[string]Trigger{}, failCreate: map[string]bool{}}
}

func (f *fakeNotifier) CreateTrigger(_ context.Context, t Trigger) error {
	f.calls = append(f.calls, "create "+t.ID)
	if f.failCreate[t.ID] {
		return errors.New("scheduler busy")
	}
	f.installed[t.ID] = t
	return nil
}

func (f *fakeNotifier) CancelTrigger(_ context.Context, id string) error {
	f.calls = append(f.calls, "cancel "+id)
	if f.failCancel {
		return errors.New("not found")
	}
	delete(f.installed, id)
	return nil
}

func (f *fakeNotifier) RequestPermission(context.Context) (bool, error) {
	return !f.deny, nil
}

func createTestScheduler(t *testing.T) (*Scheduler, *fakeNotifier, *storage.Repository) {
	t.Helper()
	repo := storage.New(kv.NewMemory(), nil)
	n := newFakeNotifier()
	clock := func() time.Time { return time.Date(2025, 1, 6, 9, 10, 0, 0, time.UTC) }
	return NewScheduler(repo, n, clock, nil), n, repo
}

func TestApply_InstallsAndPersists(t *testing.T) {
	ctx := context.Background()
	s, n, _ := createTestScheduler(t)

	cfg := Config{Mode: IntervalMode{IntervalMinutes: 60, Windows: []WindowID{"9-12"}}, SoundEnabled: true}
	set, err := s.Apply(ctx, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	wantIDs := []string{"interval-0900-0", "interval-1000-1", "interval-1100-2"}
	if !reflect.DeepEqual(set.IntervalIDs, wantIDs) || len(set.CustomIDs) != 0 {
		t.Errorf("Apply() set = %+v", set)
	}

	// 09:00 has already passed at 09:10 and moves to tomorrow.
	first := n.installed["interval-0900-0"]
	if !first.When.Equal(time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)) || !first.RepeatDaily || !first.Sound {
		t.Errorf("first trigger = %+v", first)
	}
	if first.Message != DefaultMessage {
		t.Errorf("Message = %q", first.Message)
	}

	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !st.Enabled || !reflect.DeepEqual(st.Scheduled.IntervalIDs, wantIDs) {
		t.Errorf("Status() = %+v", st)
	}
	if got := st.Settings.Config(); !reflect.DeepEqual(got, cfg) {
		t.Errorf("persisted config = %+v, want %+v", got, cfg)
	}
}

func TestApply_RescheduleReplaces(t *testing.T) {
	ctx := context.Background()
	s, n, _ := createTestScheduler(t)

	a := Config{Mode: IntervalMode{IntervalMinutes: 90, Windows: []WindowID{"6-9"}}, SoundEnabled: true}
	setA, err := s.Apply(ctx, a)
	if err != nil {
		t.Fatalf("Apply(A) error = %v", err)
	}
	n.calls = nil

	b := Config{Mode: CustomMode{Times: []TimeOfDay{tod(7, 0), tod(21, 15)}}, SoundEnabled: false}
	setB, err := s.Apply(ctx, b)
	if err != nil {
		t.Fatalf("Apply(B) error = %v", err)
	}

	// Every cancel of an A trigger comes before any B install.
	lastCancel, firstCreate := -1, len(n.calls)
	cancelled := map[string]bool{}
	for i, c := range n.calls {
		switch {
		case strings.HasPrefix(c, "cancel "):
			lastCancel = i
			cancelled[strings.TrimPrefix(c, "cancel ")] = true
		case strings.HasPrefix(c, "create ") && i < firstCreate:
			firstCreate = i
		}
	}
	if lastCancel > firstCreate {
		t.Errorf("cancel after install: %v", n.calls)
	}
	for _, id := range setA.All() {
		if !cancelled[id] {
			t.Errorf("A trigger %s not cancelled", id)
		}
	}

	if !reflect.DeepEqual(setB.CustomIDs, []string{"custom-0700-0", "custom-2115-1"}) || len(setB.IntervalIDs) != 0 {
		t.Errorf("set B = %+v", setB)
	}
	if len(n.installed) != 2 {
		t.Errorf("installed = %v, want only B", n.installed)
	}

	// The interval settings are remembered while custom mode is active.
	st, _ := s.Status(ctx)
	if st.Settings.Mode != storage.ReminderModeCustom || st.Settings.Interval.IntervalMinutes != 90 {
		t.Errorf("settings = %+v", st.Settings)
	}
}

func TestApply_ValidationLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	s, n, _ := createTestScheduler(t)
	_, _ = s.Apply(ctx, DefaultConfig())
	before, _ := s.Status(ctx)
	n.calls = nil

	_, err := s.Apply(ctx, Config{Mode: CustomMode{}})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Apply() error = %v, want ValidationError", err)
	}
	if len(n.calls) != 0 {
		t.Errorf("notifier called on invalid config: %v", n.calls)
	}
	after, _ := s.Status(ctx)
	if !reflect.DeepEqual(before, after) {
		t.Error("invalid Apply() changed persisted state")
	}
}

func TestApply_PermissionDenied(t *testing.T) {
	ctx := context.Background()
	s, n, _ := createTestScheduler(t)
	n.deny = true

	_, err := s.Apply(ctx, DefaultConfig())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Apply() error = %v, want ErrPermissionDenied", err)
	}
	st, _ := s.Status(ctx)
	if st.Enabled || !st.Scheduled.Empty() {
		t.Errorf("Status() after denial = %+v", st)
	}
}

func TestApply_PartialFailure(t *testing.T) {
	ctx := context.Background()
	s, n, _ := createTestScheduler(t)
	n.failCreate["custom-1200-1"] = true

	cfg := Config{Mode: CustomMode{Times: []TimeOfDay{tod(7, 0), tod(12, 0), tod(18, 0)}}}
	set, err := s.Apply(ctx, cfg)

	var ie *InstallError
	if !errors.As(err, &ie) {
		t.Fatalf("Apply() error = %v, want InstallError", err)
	}
	if len(ie.Failed) != 1 || ie.Installed != 2 || ie.Failed["custom-1200-1"] == nil {
		t.Errorf("InstallError = %+v", ie)
	}
	if !reflect.DeepEqual(set.CustomIDs, []string{"custom-0700-0", "custom-1800-2"}) {
		t.Errorf("set = %+v", set)
	}

	st, _ := s.Status(ctx)
	if !reflect.DeepEqual(st.Scheduled.CustomIDs, set.CustomIDs) || !st.Enabled {
		t.Errorf("persisted status = %+v", st)
	}
}

func TestApply_CancelFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s, n, repo := createTestScheduler(t)
	_, _ = s.Apply(ctx, Config{Mode: CustomMode{Times: []TimeOfDay{tod(7, 0)}}})
	n.failCancel = true

	set, err := s.Apply(ctx, Config{Mode: CustomMode{Times: []TimeOfDay{tod(20, 30)}}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// The trigger that could not be cancelled stays recorded.
	want := []string{"custom-2030-0", "custom-0700-0"}
	if !reflect.DeepEqual(set.CustomIDs, want) {
		t.Errorf("Apply() set = %+v, want %v", set, want)
	}
	persisted, _ := repo.ScheduledSet(ctx)
	if !reflect.DeepEqual(persisted.CustomIDs, want) {
		t.Errorf("persisted set = %+v, want %v", persisted, want)
	}

	// Stop keeps it while cancel fails and removes it once cancel works.
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if persisted, _ = repo.ScheduledSet(ctx); len(persisted.All()) != 2 {
		t.Errorf("Stop() dropped uncancelled IDs: %+v", persisted)
	}
	n.failCancel = false
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(n.installed) != 0 {
		t.Errorf("orphaned triggers: %v", n.installed)
	}
	if persisted, _ = repo.ScheduledSet(ctx); !persisted.Empty() {
		t.Errorf("set after Stop() = %+v", persisted)
	}
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	s, n, _ := createTestScheduler(t)
	cfg := Config{Mode: CustomMode{Times: []TimeOfDay{tod(7, 0)}}, SoundEnabled: true}
	_, _ = s.Apply(ctx, cfg)

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(n.installed) != 0 {
		t.Errorf("triggers left after Stop(): %v", n.installed)
	}
	st, _ := s.Status(ctx)
	if st.Enabled || !st.Scheduled.Empty() {
		t.Errorf("Status() after Stop() = %+v", st)
	}
	if !reflect.DeepEqual(st.Settings.Config(), cfg) {
		t.Errorf("Stop() changed settings: %+v", st.Settings)
	}
}

func TestSettings_Defaults(t *testing.T) {
	s, _, _ := createTestScheduler(t)
	got, err := s.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if !reflect.DeepEqual(got.Config(), DefaultConfig()) {
		t.Errorf("Settings().Config() = %+v, want default", got.Config())
	}
}

func TestInstallError_Unwrap(t *testing.T) {
	busy := errors.New("busy")
	err := &InstallError{Failed: map[string]error{"b": busy, "a": errors.New("x")}, Installed: 3}
	if !errors.Is(err, busy) {
		t.Error("errors.Is() should see a per-trigger error")
	}
	if !strings.Contains(err.Error(), "2 of 5") || !strings.Contains(err.Error(), "a, b") {
		t.Errorf("Error() = %q", err.Error())
	}
}
