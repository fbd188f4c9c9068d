package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// storeFactories lets every contract test run against both implementations.
func storeFactories(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"memory": func() Store { return NewMemory() },
		"disk": func() Store {
			s, err := OpenDisk(filepath.Join(t.TempDir(), "kv"))
			if err != nil {
				t.Fatalf("OpenDisk() error = %v", err)
			}
			return s
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()

			if _, ok, err := s.Get(ctx, "naamjap.count"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
			}

			if err := s.Set(ctx, "naamjap.count", "42"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			v, ok, err := s.Get(ctx, "naamjap.count")
			if err != nil || !ok || v != "42" {
				t.Fatalf("Get() = %q, %v, %v; want 42, true, nil", v, ok, err)
			}

			if err := s.Set(ctx, "naamjap.count", "43"); err != nil {
				t.Fatalf("Set(overwrite) error = %v", err)
			}
			if v, _, _ := s.Get(ctx, "naamjap.count"); v != "43" {
				t.Errorf("Get() after overwrite = %q, want 43", v)
			}

			if err := s.Remove(ctx, "naamjap.count"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, ok, _ := s.Get(ctx, "naamjap.count"); ok {
				t.Error("key still present after Remove()")
			}
			if err := s.Remove(ctx, "naamjap.count"); err != nil {
				t.Errorf("Remove(missing) error = %v", err)
			}
		})
	}
}

func TestStore_EmptyValue(t *testing.T) {
	ctx := context.Background()
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			if err := s.Set(ctx, "naamjap.activeMantra", ""); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			v, ok, err := s.Get(ctx, "naamjap.activeMantra")
			if err != nil || !ok || v != "" {
				t.Errorf("Get() = %q, %v, %v; want empty, true, nil", v, ok, err)
			}
		})
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory()
			err := s.Set(ctx, "k", "v")
			if !IsPersistence(err) {
				t.Fatalf("Set() error = %v, want PersistenceError", err)
			}
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Set() error does not wrap context.Canceled: %v", err)
			}
		})
	}
}

func TestDisk_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "kv")

	s1, err := OpenDisk(dir)
	if err != nil {
		t.Fatalf("OpenDisk() error = %v", err)
	}
	if err := s1.Set(ctx, "naamjap.malaCount", "3"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	s2, err := OpenDisk(dir)
	if err != nil {
		t.Fatalf("OpenDisk(reopen) error = %v", err)
	}
	v, ok, err := s2.Get(ctx, "naamjap.malaCount")
	if err != nil || !ok || v != "3" {
		t.Errorf("Get() after reopen = %q, %v, %v", v, ok, err)
	}

	if _, err := os.Stat(filepath.Join(dir, "naamjap.malaCount")); err != nil {
		t.Errorf("expected flat key file on disk: %v", err)
	}

	keys := s2.Keys(ctx)
	if len(keys) != 1 || keys[0] != "naamjap.malaCount" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestOpenDisk_RequiresPath(t *testing.T) {
	if _, err := OpenDisk("  "); err == nil {
		t.Error("OpenDisk() expected error for blank path")
	}
}

func TestMemory_Keys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "b", "1")
	_ = m.Set(ctx, "a", "2")
	got := m.Keys()
	if !sort.StringsAreSorted(got) || len(got) != 2 {
		t.Errorf("Keys() = %v", got)
	}
}

func TestPersistenceError_Message(t *testing.T) {
	err := &PersistenceError{Op: "set", Key: "naamjap.count", Err: errors.New("disk full")}
	if got := err.Error(); got != "kv set naamjap.count: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
