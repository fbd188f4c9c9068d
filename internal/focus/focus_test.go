package focus

import (
	"context"
	"testing"
	"time"

	"naamjap/internal/kv"
	"naamjap/internal/storage"
)

// stepClock is a settable clock.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func createTestTimer(t *testing.T) (*Timer, *storage.Repository, *stepClock) {
	t.Helper()
	repo := storage.New(kv.NewMemory(), nil)
	clock := &stepClock{now: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)}
	return New(repo, clock.Now, nil), repo, clock
}

func TestState_Default(t *testing.T) {
	timer, _, _ := createTestTimer(t)
	st, err := timer.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if st.Running || st.Duration != DefaultDuration || st.Remaining != DefaultDuration {
		t.Errorf("State() = %+v", st)
	}
}

func TestStart_CountsDown(t *testing.T) {
	ctx := context.Background()
	timer, _, clock := createTestTimer(t)

	if _, err := timer.Start(ctx, 5*time.Minute); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	clock.now = clock.now.Add(90 * time.Second)

	st, err := timer.State(ctx)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if !st.Running {
		t.Fatal("timer should still be running")
	}
	if got := st.RemainingAt(clock.now); got != 210*time.Second {
		t.Errorf("RemainingAt() = %v, want 3m30s", got)
	}
	if got := st.Format(clock.now); got != "03:30" {
		t.Errorf("Format() = %q", got)
	}
}

func TestStart_Invalid(t *testing.T) {
	timer, _, _ := createTestTimer(t)
	for _, d := range []time.Duration{0, -time.Minute, 25 * time.Hour} {
		if _, err := timer.Start(context.Background(), d); err == nil {
			t.Errorf("Start(%v) expected error", d)
		}
	}
}

func TestToggle_PauseAndResume(t *testing.T) {
	ctx := context.Background()
	timer, _, clock := createTestTimer(t)
	_, _ = timer.Start(ctx, 10*time.Minute)

	clock.now = clock.now.Add(4 * time.Minute)
	st, err := timer.Toggle(ctx)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if st.Running || st.Remaining != 6*time.Minute {
		t.Fatalf("paused state = %+v", st)
	}

	// Time spent paused does not count.
	clock.now = clock.now.Add(time.Hour)
	st, _ = timer.Toggle(ctx)
	if !st.Running {
		t.Fatal("second toggle should resume")
	}
	clock.now = clock.now.Add(time.Minute)
	st, _ = timer.State(ctx)
	if got := st.RemainingAt(clock.now); got != 5*time.Minute {
		t.Errorf("RemainingAt() after resume = %v, want 5m", got)
	}
}

func TestState_FinishesExpiredTimer(t *testing.T) {
	ctx := context.Background()
	timer, repo, clock := createTestTimer(t)
	_, _ = timer.Start(ctx, 5*time.Minute)

	clock.now = clock.now.Add(6 * time.Minute)
	st, err := timer.State(ctx)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if st.Running || st.Remaining != 0 || st.Duration != 5*time.Minute {
		t.Errorf("expired state = %+v", st)
	}
	rec, _, _ := repo.FocusTimer(ctx)
	if rec.Running || rec.StartedAt != 0 {
		t.Errorf("expired timer not saved as stopped: %+v", rec)
	}

	// Resuming a finished timer starts over.
	st, _ = timer.Toggle(ctx)
	if !st.Running || st.Remaining != 5*time.Minute {
		t.Errorf("restarted state = %+v", st)
	}
}

func TestState_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	timer, repo, clock := createTestTimer(t)
	_, _ = timer.Start(ctx, 15*time.Minute)

	clock.now = clock.now.Add(10 * time.Minute)
	restarted := New(repo, clock.Now, nil)
	st, err := restarted.State(ctx)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if got := st.RemainingAt(clock.now); got != 5*time.Minute {
		t.Errorf("RemainingAt() after restart = %v, want 5m", got)
	}
}

func TestFromRecord_RunningWithoutStart(t *testing.T) {
	st := fromRecord(storage.FocusTimerRecord{Duration: 300, Remaining: 120, Running: true})
	if st.Running || st.Remaining != 2*time.Minute {
		t.Errorf("fromRecord() = %+v, want paused at 2m", st)
	}
}
