// Package config handles configuration loading and defaults for naamjap.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/naamjap/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"time"

	"naamjap/internal/fsutil"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// AppName names the config and data directories.
const AppName = "naamjap"

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.naamjap)
	DataDir string `yaml:"data_dir,omitempty"`

	// Practice tunes the counter
	Practice PracticeConfig `yaml:"practice,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// Notifications configures reminder delivery
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`
}

// PracticeConfig defines counter behaviour.
type PracticeConfig struct {
	// DefaultTarget is used until a target is saved from the app
	DefaultTarget int `yaml:"default_target,omitempty"` // default: 108

	// AckDelayMS is how long a completed mala stays on screen before the
	// counter starts the next cycle
	AckDelayMS int `yaml:"ack_delay_ms,omitempty"` // default: 500
}

// AckDelay returns AckDelayMS as a duration.
func (p PracticeConfig) AckDelay() time.Duration {
	return time.Duration(p.AckDelayMS) * time.Millisecond
}

// NotificationConfig defines reminder delivery settings.
type NotificationConfig struct {
	// Enabled grants reminders permission to install triggers
	Enabled bool `yaml:"enabled"` // default: true

	// Sound enables notification sounds
	Sound bool `yaml:"sound"` // default: true

	// PollSeconds is how often due reminders are checked
	PollSeconds int `yaml:"poll_seconds,omitempty"` // default: 30
}

// PollInterval returns PollSeconds as a duration.
func (n NotificationConfig) PollInterval() time.Duration {
	return time.Duration(n.PollSeconds) * time.Second
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmReset asks before clearing today's practice
	ConfirmReset bool `yaml:"confirm_reset"` // default: true

	// ShowOnboarding shows welcome screen on first run
	ShowOnboarding bool `yaml:"show_onboarding"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"
	Pane3    string `yaml:"pane_3,omitempty"`    // default: "3"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Counter keys
	Tap          string `yaml:"tap,omitempty"`           // default: "space,enter"
	SwitchMantra string `yaml:"switch_mantra,omitempty"` // default: "m"
	AddMantra    string `yaml:"add_mantra,omitempty"`    // default: "a"
	SetTarget    string `yaml:"set_target,omitempty"`    // default: "t"
	ResetToday   string `yaml:"reset_today,omitempty"`   // default: "R"
	Mood         string `yaml:"mood,omitempty"`          // default: "o"
	Focus        string `yaml:"focus,omitempty"`         // default: "f"
	FocusLength  string `yaml:"focus_length,omitempty"`  // default: "F"

	// Stats keys
	Period string `yaml:"period,omitempty"` // default: "p"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"

	// Undo/Redo keys
	Undo string `yaml:"undo,omitempty"` // default: "ctrl+z,u"
	Redo string `yaml:"redo,omitempty"` // default: "ctrl+y"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Practice: PracticeConfig{
			DefaultTarget: 108,
			AckDelayMS:    500,
		},
		Theme: ThemeConfig{
			Primary:    "#F59E0B", // Saffron
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			Sound:       true,
			PollSeconds: 30,
		},
		UX: UXConfig{
			ConfirmReset:          true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, "."+AppName)
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}

	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to the config file, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := Path()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	if other.Practice.DefaultTarget > 0 {
		c.Practice.DefaultTarget = other.Practice.DefaultTarget
	}
	if other.Practice.AckDelayMS > 0 {
		c.Practice.AckDelayMS = other.Practice.AckDelayMS
	}

	mergeString(&c.Theme.Primary, other.Theme.Primary)
	mergeString(&c.Theme.Accent, other.Theme.Accent)
	mergeString(&c.Theme.Muted, other.Theme.Muted)
	mergeString(&c.Theme.Background, other.Theme.Background)
	mergeString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	mergeString(&k.Quit, o.Quit)
	mergeString(&k.Help, o.Help)
	mergeString(&k.NextPane, o.NextPane)
	mergeString(&k.Pane1, o.Pane1)
	mergeString(&k.Pane2, o.Pane2)
	mergeString(&k.Pane3, o.Pane3)
	mergeString(&k.Up, o.Up)
	mergeString(&k.Down, o.Down)
	mergeString(&k.Top, o.Top)
	mergeString(&k.Bottom, o.Bottom)
	mergeString(&k.Tap, o.Tap)
	mergeString(&k.SwitchMantra, o.SwitchMantra)
	mergeString(&k.AddMantra, o.AddMantra)
	mergeString(&k.SetTarget, o.SetTarget)
	mergeString(&k.ResetToday, o.ResetToday)
	mergeString(&k.Mood, o.Mood)
	mergeString(&k.Focus, o.Focus)
	mergeString(&k.FocusLength, o.FocusLength)
	mergeString(&k.Period, o.Period)
	mergeString(&k.Confirm, o.Confirm)
	mergeString(&k.Cancel, o.Cancel)
	mergeString(&k.Undo, o.Undo)
	mergeString(&k.Redo, o.Redo)

	if other.Notifications.PollSeconds > 0 {
		c.Notifications.PollSeconds = other.Notifications.PollSeconds
	}
	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a parsed document, booleans keep their defaults.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
	if yamlHasPath(doc, "ux", "confirm_reset") {
		c.UX.ConfirmReset = other.UX.ConfirmReset
	}
	if yamlHasPath(doc, "ux", "show_onboarding") {
		c.UX.ShowOnboarding = other.UX.ShowOnboarding
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path, expanding a leading ~.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	expanded, err := homedir.Expand(c.DataDir)
	if err != nil {
		return c.DataDir
	}
	return expanded
}

// KVDir returns the directory holding the key-value store.
func (c *Config) KVDir() string {
	return filepath.Join(c.GetDataDir(), "kv")
}
