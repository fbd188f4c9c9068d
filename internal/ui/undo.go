// Package ui provides the terminal front-end for naamjap.
// This file implements undo/redo using a command pattern with captured
// store snapshots for each undoable operation.
package ui

import (
	"context"
	"sync"

	"naamjap/internal/session"
	"naamjap/internal/storage"

	"github.com/mattn/go-runewidth"
)

// maxHistorySize limits the undo stack to prevent unbounded memory growth.
const maxHistorySize = 50

// UndoableAction represents an action that can be undone.
// It captures the state needed to reverse the operation.
type UndoableAction struct {
	Description string       // Human-readable description for status messages
	Undo        func() error // Function to reverse the action
	Redo        func() error // Function to redo the action (optional)
}

// UndoManager maintains the undo/redo history stacks.
type UndoManager struct {
	mu        sync.Mutex
	undoStack []*UndoableAction
	redoStack []*UndoableAction
}

// NewUndoManager creates a new UndoManager instance.
func NewUndoManager() *UndoManager {
	return &UndoManager{
		undoStack: make([]*UndoableAction, 0, maxHistorySize),
		redoStack: make([]*UndoableAction, 0, maxHistorySize),
	}
}

// Push adds an undoable action to the history.
// Clears the redo stack since a new action invalidates redo history.
func (m *UndoManager) Push(action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.redoStack = m.redoStack[:0]

	if len(m.undoStack) >= maxHistorySize {
		m.undoStack = m.undoStack[1:]
	}

	m.undoStack = append(m.undoStack, action)
}

// CanUndo returns true if there are actions to undo.
func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

// CanRedo returns true if there are actions to redo.
func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// Undo reverses the most recent action and returns its description.
// Returns empty string and nil error if nothing to undo.
func (m *UndoManager) Undo() (string, error) {
	m.mu.Lock()
	if len(m.undoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.mu.Unlock()

	if err := action.Undo(); err != nil {
		// Push back on failure (action not undone)
		m.mu.Lock()
		m.undoStack = append(m.undoStack, action)
		m.mu.Unlock()
		return "", err
	}

	if action.Redo != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
	}

	return action.Description, nil
}

// Redo reapplies the most recently undone action and returns its description.
// Returns empty string and nil error if nothing to redo.
func (m *UndoManager) Redo() (string, error) {
	m.mu.Lock()
	if len(m.redoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.mu.Unlock()

	if err := action.Redo(); err != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
		return "", err
	}

	m.mu.Lock()
	m.undoStack = append(m.undoStack, action)
	m.mu.Unlock()

	return action.Description, nil
}

// Clear removes all undo/redo history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = m.undoStack[:0]
	m.redoStack = m.redoStack[:0]
}

// =============================================================================
// Undoable Action Factories
// =============================================================================

// NewResetAction creates an undoable action for a date-scoped reset.
// before is the store snapshot taken just ahead of the reset.
func NewResetAction(ctx context.Context, repo *storage.Repository, m *session.Machine, dateKey string, before map[string]string) *UndoableAction {
	return &UndoableAction{
		Description: "Reset " + dateKey,
		Undo: func() error {
			return repo.RestoreSnapshot(ctx, before)
		},
		Redo: func() error {
			_, err := m.ResetDate(ctx, dateKey)
			return err
		},
	}
}

// NewSwitchMantraAction creates an undoable action for a mantra switch or
// add. Undo restores the snapshot taken before it, including any progress
// the switch archived.
func NewSwitchMantraAction(ctx context.Context, repo *storage.Repository, m *session.Machine, name string, added bool, before map[string]string) *UndoableAction {
	desc := "Switched to " + truncateText(name, 20)
	if added {
		desc = "Added " + truncateText(name, 20)
	}
	return &UndoableAction{
		Description: desc,
		Undo: func() error {
			return repo.RestoreSnapshot(ctx, before)
		},
		Redo: func() error {
			var err error
			if added {
				_, err = m.AddMantra(ctx, name)
			} else {
				_, err = m.SwitchMantra(ctx, name)
			}
			return err
		},
	}
}

// truncateText shortens text to maxLen with ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
