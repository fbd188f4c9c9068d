package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"naamjap/internal/config"
	"naamjap/internal/kv"
	"naamjap/internal/reports"
	"naamjap/internal/session"
	"naamjap/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors so output can be matched as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testNow is Wednesday 2025-01-08 09:00 UTC.
var testNow = time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

// createTestDeps wires a machine, repository and report generator over an
// in-memory store with a fixed clock and a small target.
func createTestDeps(t *testing.T) Deps {
	t.Helper()
	clock := func() time.Time { return testNow }
	repo := storage.New(kv.NewMemory(), nil)
	seq := 0
	m := session.New(repo, session.Options{
		Clock:         clock,
		DefaultTarget: 3,
		AckDelay:      time.Millisecond,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return Deps{
		Machine: m,
		Repo:    repo,
		Reports: reports.NewGenerator(repo, 3),
		Clock:   clock,
	}
}

// createTestApp builds an app with onboarding and reset confirmation off.
func createTestApp(t *testing.T) (*App, Deps) {
	t.Helper()
	deps := createTestDeps(t)
	app := NewApp(context.Background(), deps, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
	})
	return app, deps
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// selectTestMantra makes name the active mantra.
func selectTestMantra(t *testing.T, deps Deps, name string) {
	t.Helper()
	if _, err := deps.Machine.SwitchMantra(context.Background(), name); err != nil {
		t.Fatalf("SwitchMantra(%q) error = %v", name, err)
	}
}

// runCmd executes cmd and returns its message. Batches are flattened and
// the first message is returned.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				return runCmd(t, c)
			}
		}
		return nil
	}
	return msg
}

// drain executes cmd and feeds every resulting app message back into the
// app. Other messages, such as cursor blinks and clock ticks, are dropped.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("drain: too many steps")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if !isAppMsg(msg) {
			continue
		}
		_, next := app.Update(msg)
		queue = append(queue, next)
	}
}

func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case counterLoadedMsg, tappedMsg, ackElapsedMsg, cycleFinishedMsg,
		mantraSwitchedMsg, targetSetMsg, resetDoneMsg, moodSetMsg, focusLoadedMsg,
		statsLoadedMsg, historyLoadedMsg,
		undoResultMsg, redoResultMsg, remindersDispatchedMsg:
		return true
	}
	return false
}

// keyPress builds the key message bubbletea sends for s.
func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
