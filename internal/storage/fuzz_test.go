package storage

import (
	"context"
	"testing"

	"naamjap/internal/kv"
)

// FuzzDailyCounts feeds arbitrary stored values through the JSON loader
// to ensure recovery never panics and never fails the read.
func FuzzDailyCounts(f *testing.F) {
	f.Add(`{"2025-01-06":108}`)
	f.Add(``)
	f.Add(`{`)
	f.Add(`[]`)
	f.Add(`{"2025-01-06":"x"}`)
	f.Add(`null`)
	f.Add("\x00\x01\x02")

	f.Fuzz(func(t *testing.T, raw string) {
		ctx := context.Background()
		mem := kv.NewMemory()
		_ = mem.Set(ctx, KeyDailyCounts, raw)
		repo := New(mem, nil)

		counts, err := repo.DailyCounts(ctx)
		if err != nil {
			t.Fatalf("DailyCounts(%q) error = %v", raw, err)
		}
		if counts == nil {
			t.Fatalf("DailyCounts(%q) returned nil map", raw)
		}

		// A second read must be stable.
		again, err := repo.DailyCounts(ctx)
		if err != nil || len(again) != len(counts) {
			t.Errorf("second read diverged: %v vs %v (%v)", again, counts, err)
		}
	})
}
