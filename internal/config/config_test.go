package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

// useTempConfigHome points XDG_CONFIG_HOME at a temp dir for the test.
func useTempConfigHome(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	return tempDir
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Practice.DefaultTarget != 108 {
		t.Errorf("Practice.DefaultTarget = %d, want 108", cfg.Practice.DefaultTarget)
	}
	if cfg.Practice.AckDelay() != 500*time.Millisecond {
		t.Errorf("Practice.AckDelay() = %v, want 500ms", cfg.Practice.AckDelay())
	}
	if !cfg.Notifications.Enabled || !cfg.Notifications.Sound {
		t.Errorf("Notifications = %+v, want enabled with sound", cfg.Notifications)
	}
	if cfg.Notifications.PollInterval() != 30*time.Second {
		t.Errorf("PollInterval() = %v, want 30s", cfg.Notifications.PollInterval())
	}
	if cfg.Theme.Primary == "" || cfg.Theme.Accent == "" {
		t.Error("Theme colors should have default values")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	useTempConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#F59E0B" {
		t.Errorf("Theme.Primary = %q, want #F59E0B", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	home := useTempConfigHome(t)
	writeConfig(t, home, `
data_dir: /custom/data
practice:
  default_target: 54
theme:
  primary: "#FF0000"
keys:
  tap: "space"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Practice.DefaultTarget != 54 {
		t.Errorf("DefaultTarget = %d, want 54", cfg.Practice.DefaultTarget)
	}
	// Omitted ints keep their defaults.
	if cfg.Practice.AckDelayMS != 500 {
		t.Errorf("AckDelayMS = %d, want 500", cfg.Practice.AckDelayMS)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want #6B7280", cfg.Theme.Muted)
	}
	if cfg.Keys.Tap != "space" {
		t.Errorf("Keys.Tap = %q, want space", cfg.Keys.Tap)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := useTempConfigHome(t)
	writeConfig(t, home, "practice: [unclosed")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme: ThemeConfig{
			Primary: "#CUSTOM",
		},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#CUSTOM" {
		t.Errorf("Theme.Primary = %q, want #CUSTOM", base.Theme.Primary)
	}
	if base.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want #10B981", base.Theme.Accent)
	}
	if base.Practice.DefaultTarget != 108 {
		t.Errorf("DefaultTarget = %d, want 108", base.Practice.DefaultTarget)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	home := useTempConfigHome(t)
	writeConfig(t, home, `
theme:
  primary: "#FF0000"
notifications:
  poll_seconds: 10
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Notifications.PollSeconds != 10 {
		t.Errorf("PollSeconds = %d, want 10", cfg.Notifications.PollSeconds)
	}
	if !cfg.Notifications.Enabled {
		t.Errorf("Notifications.Enabled = %v, want true", cfg.Notifications.Enabled)
	}
	if !cfg.Notifications.Sound {
		t.Errorf("Notifications.Sound = %v, want true", cfg.Notifications.Sound)
	}
	if !cfg.UX.ConfirmReset || !cfg.UX.ShowOnboarding {
		t.Errorf("UX = %+v, want confirm and onboarding on", cfg.UX)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	home := useTempConfigHome(t)
	writeConfig(t, home, `
notifications:
  enabled: false
  sound: false
ux:
  confirm_reset: false
  show_onboarding: false
  narrow_layout_threshold: 100
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Notifications.Enabled {
		t.Errorf("Notifications.Enabled = %v, want false", cfg.Notifications.Enabled)
	}
	if cfg.Notifications.Sound {
		t.Errorf("Notifications.Sound = %v, want false", cfg.Notifications.Sound)
	}
	if cfg.UX.ConfirmReset {
		t.Errorf("UX.ConfirmReset = %v, want false", cfg.UX.ConfirmReset)
	}
	if cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want false", cfg.UX.ShowOnboarding)
	}
	if cfg.UX.NarrowLayoutThreshold != 100 {
		t.Errorf("UX.NarrowLayoutThreshold = %d, want 100", cfg.UX.NarrowLayoutThreshold)
	}
}

func TestGetDataDir(t *testing.T) {
	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{name: "absolute path", dataDir: "/custom/path", want: "/custom/path"},
	}

	if home, err := homedir.Dir(); err == nil && home != "" {
		tests = append(tests,
			struct {
				name    string
				dataDir string
				want    string
			}{name: "tilde expands home", dataDir: "~", want: home},
			struct {
				name    string
				dataDir string
				want    string
			}{name: "tilde path expands home", dataDir: "~/mydata", want: filepath.Join(home, "mydata")},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: tt.dataDir}
			if got := cfg.GetDataDir(); got != tt.want {
				t.Errorf("GetDataDir() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("empty uses default", func(t *testing.T) {
		got := (&Config{}).GetDataDir()
		if filepath.Base(got) != ".naamjap" {
			t.Errorf("GetDataDir() = %q, want to end with .naamjap", got)
		}
	})
}

func TestKVDir(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.KVDir(); got != filepath.Join("/data", "kv") {
		t.Errorf("KVDir() = %q", got)
	}
}

func TestSave(t *testing.T) {
	home := useTempConfigHome(t)

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Practice.DefaultTarget = 27
	cfg.Notifications.Enabled = false

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, AppName, "config.yaml")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Practice.DefaultTarget != 27 {
		t.Errorf("loaded DefaultTarget = %d, want 27", loaded.Practice.DefaultTarget)
	}
	if loaded.Notifications.Enabled {
		t.Error("loaded Notifications.Enabled = true, want the saved false")
	}
}
