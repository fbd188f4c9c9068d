// Package ui provides the terminal front-end for naamjap.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and user customization.
package ui

import (
	"strings"

	"naamjap/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	Pane1    key.Binding
	Pane2    key.Binding
	Pane3    key.Binding
	Undo     key.Binding
	Redo     key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
		NextPane: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextPane, "tab")...),
			key.WithHelp("tab", "next pane"),
		),
		Pane1: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane1, "1")...),
			key.WithHelp("1", "counter"),
		),
		Pane2: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane2, "2")...),
			key.WithHelp("2", "stats"),
		),
		Pane3: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane3, "3")...),
			key.WithHelp("3", "history"),
		),
		Undo: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Undo, "ctrl+z", "u")...),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Redo, "ctrl+y")...),
			key.WithHelp("ctrl+y", "redo"),
		),
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Top, "g")...),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Bottom, "G")...),
			key.WithHelp("G", "bottom"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// =============================================================================
// Counter Pane Keys
// =============================================================================

// CounterKeyMap defines keys for the counter pane.
type CounterKeyMap struct {
	Tap          key.Binding
	SwitchMantra key.Binding
	AddMantra    key.Binding
	SetTarget    key.Binding
	ResetToday   key.Binding
	Mood         key.Binding
	Focus        key.Binding
	FocusLength  key.Binding
	NavigationKeyMap
}

// DefaultCounterKeyMap returns the default counter pane key bindings.
func DefaultCounterKeyMap() CounterKeyMap {
	return NewCounterKeyMap(&config.KeysConfig{})
}

// NewCounterKeyMap creates counter key bindings from config.
func NewCounterKeyMap(cfg *config.KeysConfig) CounterKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return CounterKeyMap{
		Tap: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Tap, " ", "enter")...),
			key.WithHelp("space", "chant"),
		),
		SwitchMantra: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SwitchMantra, "m")...),
			key.WithHelp("m", "mantra"),
		),
		AddMantra: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddMantra, "a")...),
			key.WithHelp("a", "add mantra"),
		),
		SetTarget: key.NewBinding(
			key.WithKeys(parseKeys(cfg.SetTarget, "t")...),
			key.WithHelp("t", "target"),
		),
		ResetToday: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ResetToday, "R")...),
			key.WithHelp("R", "reset today"),
		),
		Mood: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Mood, "o")...),
			key.WithHelp("o", "mood"),
		),
		Focus: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Focus, "f")...),
			key.WithHelp("f", "focus start/pause"),
		),
		FocusLength: key.NewBinding(
			key.WithKeys(parseKeys(cfg.FocusLength, "F")...),
			key.WithHelp("F", "focus length"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the counter pane (implements help.KeyMap).
func (k CounterKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.SwitchMantra, k.AddMantra, k.SetTarget}
}

// FullHelp returns the full help for the counter pane (implements help.KeyMap).
func (k CounterKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.SwitchMantra, k.AddMantra},
		{k.SetTarget, k.ResetToday},
		{k.Mood, k.Focus, k.FocusLength},
	}
}

// =============================================================================
// Stats Pane Keys
// =============================================================================

// StatsKeyMap defines keys for the stats pane.
type StatsKeyMap struct {
	Period key.Binding
}

// NewStatsKeyMap creates stats key bindings from config.
func NewStatsKeyMap(cfg *config.KeysConfig) StatsKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return StatsKeyMap{
		Period: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Period, "p", " ")...),
			key.WithHelp("p", "week/month/year"),
		),
	}
}

// =============================================================================
// History Pane Keys
// =============================================================================

// HistoryKeyMap defines keys for the history pane.
type HistoryKeyMap struct {
	NavigationKeyMap
}

// NewHistoryKeyMap creates history key bindings from config.
func NewHistoryKeyMap(cfg *config.KeysConfig) HistoryKeyMap {
	return HistoryKeyMap{NavigationKeyMap: NewNavigationKeyMap(cfg)}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
