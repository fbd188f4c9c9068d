package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Moods are the intentions a session can be dedicated to.
var Moods = []string{"Peace", "Focus", "Gratitude", "Healing"}

// DefaultMood is used until another mood is chosen.
const DefaultMood = "Peace"

// ErrUnknownMood is returned by SetMood for a name not in Moods.
var ErrUnknownMood = errors.New("unknown mood")

// Mood returns the mood stamped on the next completed session.
func (m *Machine) Mood(ctx context.Context) (string, error) {
	mood, ok, err := m.repo.CurrentMood(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return DefaultMood, nil
	}
	return mood, nil
}

// SetMood selects one of Moods, matched case-insensitively, and returns
// its canonical spelling.
func (m *Machine) SetMood(ctx context.Context, name string) (string, error) {
	mood, ok := lookupMood(name)
	if !ok {
		return "", fmt.Errorf("%q: %w (choose %s)", name, ErrUnknownMood, strings.Join(Moods, ", "))
	}
	if err := m.repo.SaveCurrentMood(ctx, mood); err != nil {
		return "", fmt.Errorf("save mood: %w", err)
	}
	return mood, nil
}

// NextMood returns the mood after current in Moods, wrapping around.
func NextMood(current string) string {
	for i, mood := range Moods {
		if strings.EqualFold(mood, current) {
			return Moods[(i+1)%len(Moods)]
		}
	}
	return Moods[0]
}

func lookupMood(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, mood := range Moods {
		if strings.EqualFold(mood, name) {
			return mood, true
		}
	}
	return "", false
}
