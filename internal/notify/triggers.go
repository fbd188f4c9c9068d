package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"naamjap/internal/kv"
	"naamjap/internal/reminder"
)

// KeyTriggers holds the scheduled trigger table.
const KeyTriggers = "naamjap.triggers"

// TriggerTable is a reminder.Notifier that keeps triggers in the key/value
// store so they survive restarts. A Dispatcher delivers them.
type TriggerTable struct {
	mu      sync.Mutex
	store   kv.Store
	allowed func() bool
	logger  *slog.Logger
}

var _ reminder.Notifier = (*TriggerTable)(nil)

// NewTriggerTable creates a table over store. allowed reports whether the
// user permits notifications; nil means always.
func NewTriggerTable(store kv.Store, allowed func() bool, logger *slog.Logger) *TriggerTable {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TriggerTable{store: store, allowed: allowed, logger: logger}
}

// RequestPermission implements reminder.Notifier.
func (t *TriggerTable) RequestPermission(context.Context) (bool, error) {
	if t.allowed == nil {
		return true, nil
	}
	return t.allowed(), nil
}

// CreateTrigger implements reminder.Notifier. An existing trigger with the
// same ID is replaced.
func (t *TriggerTable) CreateTrigger(ctx context.Context, trig reminder.Trigger) error {
	if strings.TrimSpace(trig.ID) == "" {
		return fmt.Errorf("trigger ID required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range list {
		if list[i].ID == trig.ID {
			list[i] = trig
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, trig)
	}
	return t.save(ctx, list)
}

// CancelTrigger implements reminder.Notifier. Cancelling an unknown ID is
// not an error.
func (t *TriggerTable) CancelTrigger(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, trig := range list {
		if trig.ID != id {
			kept = append(kept, trig)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return t.save(ctx, kept)
}

// List returns every trigger ordered by next fire time.
func (t *TriggerTable) List(ctx context.Context) ([]reminder.Trigger, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// update loads the table, lets fn rewrite it and saves the result.
func (t *TriggerTable) update(ctx context.Context, fn func([]reminder.Trigger) []reminder.Trigger) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	list, err := t.load(ctx)
	if err != nil {
		return err
	}
	return t.save(ctx, fn(list))
}

func (t *TriggerTable) load(ctx context.Context) ([]reminder.Trigger, error) {
	raw, ok, err := t.store.Get(ctx, KeyTriggers)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []reminder.Trigger{}, nil
	}
	var list []reminder.Trigger
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// Preserve the unreadable table and start over.
		if setErr := t.store.Set(ctx, KeyTriggers+".corrupt", raw); setErr != nil {
			return nil, setErr
		}
		t.logger.Warn("reset corrupt trigger table", "error", err)
		return []reminder.Trigger{}, nil
	}
	sortTriggers(list)
	return list, nil
}

func (t *TriggerTable) save(ctx context.Context, list []reminder.Trigger) error {
	sortTriggers(list)
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("serialize triggers: %w", err)
	}
	return t.store.Set(ctx, KeyTriggers, string(data))
}

func sortTriggers(list []reminder.Trigger) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].When.Equal(list[j].When) {
			return list[i].ID < list[j].ID
		}
		return list[i].When.Before(list[j].When)
	})
}
