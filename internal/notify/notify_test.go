package notify

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"
	"time"

	"naamjap/internal/kv"
	"naamjap/internal/reminder"
)

// TestNewDesktop tests that NewDesktop() returns a usable value.
func TestNewDesktop(t *testing.T) {
	d := NewDesktop()
	if d == nil {
		t.Fatal("NewDesktop() returned nil")
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		t.Logf("%s notification support: %v", runtime.GOOS, d.IsSupported())
	default:
		if d.IsSupported() {
			t.Errorf("IsSupported() should be false on %s", runtime.GOOS)
		}
	}
}

// TestSend actually shows a notification.
func TestSend(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping notification test in short mode")
	}
	if os.Getenv("RUN_NOTIFY_TESTS") != "1" {
		t.Skip("Skipping manual notification test (set RUN_NOTIFY_TESTS=1 to enable)")
	}

	d := NewDesktop()
	if !d.IsSupported() {
		t.Skip("Notifications not supported on this platform")
	}
	if err := d.Send(context.Background(), Notification{Title: "naamjap test", Message: "This is a test notification"}); err != nil {
		t.Errorf("Send() error: %v", err)
	}
}

// =============================================================================
// TriggerTable Tests
// =============================================================================

var base = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func trigger(id string, when time.Time, daily bool) reminder.Trigger {
	return reminder.Trigger{ID: id, When: when, RepeatDaily: daily, Title: "Naam Jap", Message: "Time for Naam Jap"}
}

func TestTriggerTable_CreateCancel(t *testing.T) {
	ctx := context.Background()
	table := NewTriggerTable(kv.NewMemory(), nil, nil)

	_ = table.CreateTrigger(ctx, trigger("b", base.Add(2*time.Hour), true))
	_ = table.CreateTrigger(ctx, trigger("a", base.Add(time.Hour), true))
	_ = table.CreateTrigger(ctx, trigger("a", base.Add(3*time.Hour), true)) // replaces

	list, err := table.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("List() = %+v, want b then a", list)
	}

	if err := table.CancelTrigger(ctx, "b"); err != nil {
		t.Fatalf("CancelTrigger() error = %v", err)
	}
	if err := table.CancelTrigger(ctx, "missing"); err != nil {
		t.Errorf("CancelTrigger(missing) error = %v", err)
	}
	list, _ = table.List(ctx)
	if len(list) != 1 || list[0].ID != "a" {
		t.Errorf("List() after cancel = %+v", list)
	}

	if err := table.CreateTrigger(ctx, trigger(" ", base, false)); err == nil {
		t.Error("CreateTrigger(blank ID) expected error")
	}
}

func TestTriggerTable_Permission(t *testing.T) {
	allowed := false
	table := NewTriggerTable(kv.NewMemory(), func() bool { return allowed }, nil)
	if ok, _ := table.RequestPermission(context.Background()); ok {
		t.Error("RequestPermission() = true while disabled")
	}
	allowed = true
	if ok, _ := table.RequestPermission(context.Background()); !ok {
		t.Error("RequestPermission() = false while enabled")
	}
}

func TestTriggerTable_CorruptTable(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.Set(ctx, KeyTriggers, "[{")
	table := NewTriggerTable(mem, nil, nil)

	list, err := table.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("List() = %v, %v; want empty", list, err)
	}
	if v, ok, _ := mem.Get(ctx, KeyTriggers+".corrupt"); !ok || v != "[{" {
		t.Errorf("corrupt table not preserved: %q", v)
	}
}

// =============================================================================
// Dispatcher Tests
// =============================================================================

type recordingDesktop struct {
	sent []Notification
	fail bool
}

func (r *recordingDesktop) Send(_ context.Context, n Notification) error {
	if r.fail {
		return errors.New("daemon not running")
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingDesktop) IsSupported() bool { return true }

func TestDispatchDue(t *testing.T) {
	ctx := context.Background()
	table := NewTriggerTable(kv.NewMemory(), nil, nil)
	desk := &recordingDesktop{}
	d := NewDispatcher(table, desk, nil)

	_ = table.CreateTrigger(ctx, trigger("daily", base, true))
	_ = table.CreateTrigger(ctx, trigger("once", base.Add(-time.Minute), false))
	_ = table.CreateTrigger(ctx, trigger("later", base.Add(time.Hour), true))

	sent, err := d.DispatchDue(ctx, base)
	if err != nil {
		t.Fatalf("DispatchDue() error = %v", err)
	}
	if sent != 2 || len(desk.sent) != 2 {
		t.Fatalf("sent = %d (%v), want 2", sent, desk.sent)
	}

	list, _ := table.List(ctx)
	if len(list) != 2 {
		t.Fatalf("List() = %+v, want daily and later", list)
	}
	for _, trig := range list {
		if trig.ID == "once" {
			t.Error("one-shot trigger kept after delivery")
		}
		if trig.ID == "daily" && !trig.When.Equal(base.AddDate(0, 0, 1)) {
			t.Errorf("daily trigger moved to %v", trig.When)
		}
	}

	// Nothing else is due at the same instant.
	if sent, _ := d.DispatchDue(ctx, base); sent != 0 {
		t.Errorf("second DispatchDue() sent %d", sent)
	}
}

func TestDispatchDue_MissedDaysFireOnce(t *testing.T) {
	ctx := context.Background()
	table := NewTriggerTable(kv.NewMemory(), nil, nil)
	desk := &recordingDesktop{}
	d := NewDispatcher(table, desk, nil)

	_ = table.CreateTrigger(ctx, trigger("daily", base, true))
	now := base.AddDate(0, 0, 3).Add(30 * time.Minute)

	sent, _ := d.DispatchDue(ctx, now)
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	list, _ := table.List(ctx)
	if want := base.AddDate(0, 0, 4); !list[0].When.Equal(want) {
		t.Errorf("next occurrence = %v, want %v", list[0].When, want)
	}
}

func TestDispatchDue_DeliveryFailureStillAdvances(t *testing.T) {
	ctx := context.Background()
	table := NewTriggerTable(kv.NewMemory(), nil, nil)
	d := NewDispatcher(table, &recordingDesktop{fail: true}, nil)
	_ = table.CreateTrigger(ctx, trigger("daily", base, true))

	sent, err := d.DispatchDue(ctx, base)
	if err == nil || sent != 0 {
		t.Errorf("DispatchDue() = %d, %v; want error", sent, err)
	}
	list, _ := table.List(ctx)
	if !list[0].When.After(base) {
		t.Error("failed trigger not advanced")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	table := NewTriggerTable(kv.NewMemory(), nil, nil)
	desk := &recordingDesktop{}
	d := NewDispatcher(table, desk, nil)
	_ = table.CreateTrigger(context.Background(), trigger("daily", base, true))

	cancel()
	err := d.Run(ctx, time.Millisecond, func() time.Time { return base })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
