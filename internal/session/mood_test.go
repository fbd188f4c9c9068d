package session

import (
	"context"
	"errors"
	"testing"
)

func TestMood_DefaultAndSet(t *testing.T) {
	m, _, _ := createTestMachine(t)
	ctx := context.Background()

	mood, err := m.Mood(ctx)
	if err != nil || mood != DefaultMood {
		t.Fatalf("Mood() = %q, %v; want %q", mood, err, DefaultMood)
	}

	got, err := m.SetMood(ctx, "  gratitude ")
	if err != nil {
		t.Fatalf("SetMood() error = %v", err)
	}
	if got != "Gratitude" {
		t.Errorf("SetMood() = %q, want canonical Gratitude", got)
	}
	if mood, _ := m.Mood(ctx); mood != "Gratitude" {
		t.Errorf("Mood() after set = %q, want Gratitude", mood)
	}

	if _, err := m.SetMood(ctx, "Anger"); !errors.Is(err, ErrUnknownMood) {
		t.Errorf("SetMood(Anger) error = %v, want ErrUnknownMood", err)
	}
	if mood, _ := m.Mood(ctx); mood != "Gratitude" {
		t.Errorf("failed set changed the mood to %q", mood)
	}
}

func TestNextMood(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Peace", "Focus"},
		{"focus", "Gratitude"},
		{"Healing", "Peace"},
		{"", "Peace"},
		{"Unknown", "Peace"},
	}
	for _, tt := range tests {
		if got := NextMood(tt.current); got != tt.want {
			t.Errorf("NextMood(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestIncrement_CompletionCarriesMood(t *testing.T) {
	m, _, _ := createTestMachine(t)
	ctx := context.Background()
	if err := m.SetDefaultTarget(ctx, 2); err != nil {
		t.Fatal(err)
	}
	selectMantra(t, m, "Om")
	if _, err := m.SetMood(ctx, "Healing"); err != nil {
		t.Fatal(err)
	}

	res := tap(t, m, 2)
	if !res.Completed || res.Entry == nil {
		t.Fatalf("second tap should complete, got %+v", res)
	}
	if res.Entry.Mood != "Healing" {
		t.Errorf("entry mood = %q, want Healing", res.Entry.Mood)
	}

	history, err := m.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Mood != "Healing" {
		t.Errorf("saved history = %+v, want one Healing entry", history)
	}
}
