// Package ui provides the terminal front-end for naamjap.
// This file contains tests for mouse interaction support.
package ui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"naamjap/internal/config"
	"naamjap/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// TestApp_MousePaneSwitching verifies clicking on panes switches focus.
func TestApp_MousePaneSwitching(t *testing.T) {
	app, _ := createTestApp(t)

	// Set wide width to enable 3-pane layout
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	if app.activePane != PaneCounter {
		t.Errorf("Expected initial pane to be Counter, got %v", app.activePane)
	}

	mouseMsg := tea.MouseMsg{
		X:      50,
		Y:      0,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	}
	app.Update(mouseMsg)

	if app.activePane != PaneStats {
		t.Errorf("Expected pane to be Stats after click, got %v", app.activePane)
	}

	mouseMsg.X = 100
	app.Update(mouseMsg)

	if app.activePane != PaneHistory {
		t.Errorf("Expected pane to be History after click, got %v", app.activePane)
	}
}

// TestApp_MouseClosesHelp verifies clicking closes help overlay.
func TestApp_MouseClosesHelp(t *testing.T) {
	app, _ := createTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	app.showHelp = true

	app.Update(tea.MouseMsg{
		X:      50,
		Y:      15,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	})

	if app.showHelp {
		t.Error("Expected help to close after click")
	}
}

// TestApp_MouseCancelsConfirm verifies a click dismisses the reset prompt.
func TestApp_MouseCancelsConfirm(t *testing.T) {
	deps := createTestDeps(t)
	app := NewApp(context.Background(), deps, createTestStyles(), &AppConfig{
		Keys:         &config.KeysConfig{},
		ConfirmReset: true,
	})
	app.Update(keyPress("R"))
	if app.confirm == nil {
		t.Fatal("expected reset confirmation")
	}

	_, cmd := app.Update(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if app.confirm != nil || cmd != nil {
		t.Error("click should cancel the reset without running it")
	}
}

// TestCounterPane_MouseTap verifies clicking the count display taps.
func TestCounterPane_MouseTap(t *testing.T) {
	deps := createTestDeps(t)
	selectTestMantra(t, deps, "Om")
	pane := NewCounterPane(context.Background(), deps.Machine, deps.Repo, createTestStyles(), nil)
	pane.SetSize(40, 20)
	pane.SetFocused(true)

	cmd := pane.Update(tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	msg, ok := runCmd(t, cmd).(tappedMsg)
	if !ok || msg.err != nil || msg.result.State.Count != 1 {
		t.Errorf("click on count should tap once, got %+v", msg)
	}

	if cmd := pane.Update(tea.MouseMsg{X: 5, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}); cmd != nil {
		t.Error("click on the title should not tap")
	}
}

// TestHistoryPane_MouseSelection verifies clicking selects entries.
func TestHistoryPane_MouseSelection(t *testing.T) {
	pane := NewHistoryPane(context.Background(), nil, createTestStyles(), nil)
	pane.setEntries(testEntries(3))
	pane.SetSize(60, 20)
	pane.SetFocused(true)

	if pane.cursor != 0 {
		t.Errorf("Expected initial cursor 0, got %d", pane.cursor)
	}

	mouseMsg := tea.MouseMsg{
		X:      10,
		Y:      3, // header (2) + row 1
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
	}
	pane.Update(mouseMsg)
	if pane.cursor != 1 {
		t.Errorf("Expected cursor 1 after click, got %d", pane.cursor)
	}

	mouseMsg.Y = 4
	pane.Update(mouseMsg)
	if pane.cursor != 2 {
		t.Errorf("Expected cursor 2 after click, got %d", pane.cursor)
	}
}

// TestHistoryPane_MouseScroll verifies scroll wheel navigates entries.
func TestHistoryPane_MouseScroll(t *testing.T) {
	pane := NewHistoryPane(context.Background(), nil, createTestStyles(), nil)
	pane.setEntries(testEntries(3))
	pane.SetSize(60, 20)
	pane.SetFocused(true)

	down := tea.MouseMsg{Button: tea.MouseButtonWheelDown}
	pane.Update(down)
	pane.Update(down)
	if pane.cursor != 2 {
		t.Errorf("Expected cursor 2 after scrolling down twice, got %d", pane.cursor)
	}
	pane.Update(down)
	if pane.cursor != 2 {
		t.Errorf("cursor should stop at the last entry, got %d", pane.cursor)
	}

	pane.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	if pane.cursor != 1 {
		t.Errorf("Expected cursor 1 after scroll up, got %d", pane.cursor)
	}
}

// TestApp_PaneAtPosition verifies pane position calculation.
func TestApp_PaneAtPosition(t *testing.T) {
	app, _ := createTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	tests := []struct {
		x        int
		expected PaneID
	}{
		{0, PaneCounter},
		{10, PaneCounter},
		{50, PaneStats},
		{90, PaneHistory},
		{110, PaneHistory},
	}

	for _, tc := range tests {
		got := app.paneAtPosition(tc.x)
		if got != tc.expected {
			t.Errorf("paneAtPosition(%d) = %v, want %v", tc.x, got, tc.expected)
		}
	}
}

// testEntries returns n completed entries, newest first.
func testEntries(n int) []storage.HistoryEntry {
	entries := make([]storage.HistoryEntry, n)
	for i := range entries {
		entries[i] = storage.HistoryEntry{
			ID:          fmt.Sprintf("e%d", i),
			Mantra:      "Om",
			Count:       108,
			Target:      108,
			CompletedAt: testNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	return entries
}
