package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/mahalla/internal/persistence/sqlite"
)

// SQLiteHarness provides a session slot backed by a temporary SQLite file.
type SQLiteHarness struct {
	Slot *sqlite.Slot
	DSN  string

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a slot in a temporary directory.
// Close is also registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dsn := filepath.Join(tb.TempDir(), "mahalla.db")
	slot, err := sqlite.Open(dsn)
	if err != nil {
		tb.Fatalf("failed to open slot: %v", err)
	}
	if err := slot.Migrate(context.Background()); err != nil {
		_ = slot.Close()
		tb.Fatalf("failed to migrate slot: %v", err)
	}

	harness := &SQLiteHarness{
		Slot: slot,
		DSN:  dsn,
		cleanup: func() {
			_ = slot.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}

// Reopen closes the slot and opens a fresh one on the same file,
// simulating a process restart.
func (h *SQLiteHarness) Reopen(tb testing.TB) *sqlite.Slot {
	tb.Helper()

	h.Close()
	slot, err := sqlite.Open(h.DSN)
	if err != nil {
		tb.Fatalf("failed to reopen slot: %v", err)
	}
	if err := slot.Migrate(context.Background()); err != nil {
		_ = slot.Close()
		tb.Fatalf("failed to migrate slot: %v", err)
	}
	h.Slot = slot
	h.cleanup = func() {
		_ = slot.Close()
	}
	return slot
}
