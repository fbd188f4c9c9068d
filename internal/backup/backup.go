// Package backup keeps timestamped snapshots of the practice data so a
// bad reset or a corrupted store can be rolled back.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"naamjap/internal/datekey"
	"naamjap/internal/fsutil"
	"naamjap/internal/stats"
	"naamjap/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	SnapshotFile    = "snapshot.json"
	BackupsDir      = "backups"
)

// ErrNoBackups is returned by RestoreLatest when nothing has been backed up.
var ErrNoBackups = errors.New("no backups available")

// Manager handles backup and restore operations.
type Manager struct {
	repo       *storage.Repository
	backupDir  string // e.g. ~/.naamjap/backups
	appVersion string
	clock      datekey.Clock
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Keys       int            `json:"keys"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2025-12-15_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // days, sessions, malas
}

// NewManager creates a backup manager storing backups under dataDir.
func NewManager(repo *storage.Repository, dataDir, appVersion string, clock datekey.Clock) *Manager {
	return &Manager{
		repo:       repo,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		clock:      clock,
	}
}

// Dir returns the directory holding the backups.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the store into a new backup.
// Returns the backup name (timestamp format) on success.
func (m *Manager) Create(ctx context.Context) (string, error) {
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to snapshot store: %w", err)
	}
	summary, err := m.collectStats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read stats: %w", err)
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.clock.Now()
	name := backupName(now)
	// Two backups inside one millisecond would collide.
	for i := 1; dirExists(filepath.Join(m.backupDir, name)); i++ {
		name = backupName(now.Add(time.Duration(i) * time.Millisecond))
	}
	backupPath := filepath.Join(m.backupDir, name)

	if err := os.MkdirAll(backupPath, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	if err := fsutil.WriteJSONAtomic(filepath.Join(backupPath, SnapshotFile), snap, 0600); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Keys:       len(snap),
		Stats:      summary,
	}
	if err := fsutil.WriteJSONAtomic(filepath.Join(backupPath, ManifestFile), manifest, 0600); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

func (m *Manager) collectStats(ctx context.Context) (map[string]int, error) {
	counts, err := m.repo.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}
	history, err := m.repo.History(ctx)
	if err != nil {
		return nil, err
	}
	malas, err := m.repo.MalaCount(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"days":     stats.ActiveDays(counts),
		"sessions": len(history),
		"malas":    malas,
	}, nil
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore replaces the store contents with a backup's snapshot.
// It creates a safety backup before restoring.
func (m *Manager) Restore(ctx context.Context, name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if !dirExists(backupPath) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var snap map[string]string
	if err := readJSON(filepath.Join(backupPath, SnapshotFile), &snap); err != nil {
		return fmt.Errorf("backup %s is unreadable: %w", name, err)
	}
	if err := validateSnapshot(snap); err != nil {
		return fmt.Errorf("backup %s is invalid: %w", name, err)
	}

	safetyName, err := m.Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	if err := m.repo.RestoreSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to restore %s (safety backup: %s): %w", name, safetyName, err)
	}
	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest(ctx context.Context) (string, error) {
	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", ErrNoBackups
	}
	name := backups[0].Name
	return name, m.Restore(ctx, name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if !dirExists(backupPath) {
		return fmt.Errorf("backup not found: %s", name)
	}

	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if !dirExists(filepath.Join(m.backupDir, name)) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*BackupInfo, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		// Fall back to the timestamp in the directory name.
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	if manifest.Stats == nil {
		manifest.Stats = make(map[string]int)
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Helper functions

// validateSnapshot rejects snapshots whose structured values are not JSON,
// so a damaged backup never overwrites good data.
func validateSnapshot(snap map[string]string) error {
	structured := map[string]bool{
		storage.KeyDailyCounts:           true,
		storage.KeySessionHistory:        true,
		storage.KeyDailyGoals:            true,
		storage.KeyMantraList:            true,
		storage.KeyReminderActiveWindows: true,
		storage.KeyReminderCustomTimes:   true,
		storage.KeyReminderIDs:           true,
		storage.KeyReminderCustomIDs:     true,
		storage.KeyFocusTimer:            true,
	}
	for key, v := range snap {
		if structured[key] && !json.Valid([]byte(v)) {
			return fmt.Errorf("key %s holds invalid JSON", key)
		}
	}
	return nil
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func backupName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format("2006-01-02_150405"), t.Nanosecond()/1e6)
}

// readJSON reads JSON from a file into a value.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// parseBackupName parses a backup directory name into a timestamp.
// Accepts 2006-01-02_150405 with an optional _XXX millisecond suffix.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		baseTime, err := time.ParseInLocation("2006-01-02_150405", name[:17], time.Local)
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}

	return time.ParseInLocation("2006-01-02_150405", name, time.Local)
}
