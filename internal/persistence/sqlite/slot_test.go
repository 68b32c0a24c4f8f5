package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/mahalla/internal/persistence"
)

func newTestSlot(t *testing.T, dsn string) *Slot {
	t.Helper()

	slot, err := Open(dsn)
	if err != nil {
		t.Fatalf("failed to open slot: %v", err)
	}
	t.Cleanup(func() {
		_ = slot.Close()
	})

	if err := slot.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return slot
}

func TestSlot(t *testing.T) {
	ctx := context.Background()
	slot := newTestSlot(t, filepath.Join(t.TempDir(), "mahalla.db"))

	if _, err := slot.Get(ctx, "currentUser"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty slot, got %v", err)
	}

	if err := slot.Put(ctx, "currentUser", []byte(`{"id":"admin"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := slot.Put(ctx, "currentUser", []byte(`{"id":"user-21_169"}`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := slot.Get(ctx, "currentUser")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"id":"user-21_169"}` {
		t.Fatalf("unexpected value %s", got)
	}

	if err := slot.Delete(ctx, "currentUser"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := slot.Delete(ctx, "currentUser"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := slot.Put(ctx, "", nil); !errors.Is(err, persistence.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestSlotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "mahalla.db")

	first, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	written := time.Date(2024, time.May, 6, 10, 30, 0, 0, time.UTC)
	first.now = func() time.Time { return written }
	if err := first.Put(ctx, "currentUser", []byte("snapshot")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := newTestSlot(t, dsn)
	got, err := second.Get(ctx, "currentUser")
	if err != nil || string(got) != "snapshot" {
		t.Fatalf("expected persisted value, got %q (%v)", got, err)
	}
	var updated string
	if err := second.pool.DB().QueryRowContext(ctx, `SELECT updated_at FROM session_slots WHERE key = ?`, "currentUser").Scan(&updated); err != nil {
		t.Fatalf("read updated_at: %v", err)
	}
	if updated != written.Format(time.RFC3339Nano) {
		t.Fatalf("expected updated_at %v, got %s", written, updated)
	}
}

func TestSlotInMemory(t *testing.T) {
	ctx := context.Background()
	slot := newTestSlot(t, MemoryDSN)
	if err := slot.Put(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if got, err := slot.Get(ctx, "k"); err != nil || string(got) != "v" {
		t.Fatalf("unexpected value %q (%v)", got, err)
	}
	if err := slot.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dsn", func(c *Config) { c.DSN = " " }},
		{"negative timeout", func(c *Config) { c.BusyTimeout = -time.Second }},
		{"journal mode", func(c *Config) { c.JournalMode = "FAST" }},
		{"synchronous", func(c *Config) { c.Synchronous = "SOMETIMES" }},
		{"pool", func(c *Config) { c.MaxOpenConns = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("mahalla.db")
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
	if err := DefaultConfig("mahalla.db").Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if _, err := NewConnectionPool(Config{}); err == nil {
		t.Fatalf("expected empty config to be rejected")
	}
}

func TestRetryHelper(t *testing.T) {
	ctx := context.Background()
	helper := NewRetryHelper(RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 2})

	attempts := 0
	err := helper.WithRetry(ctx, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil || attempts != 3 {
		t.Fatalf("expected success on third attempt, got %v after %d", err, attempts)
	}

	attempts = 0
	permanent := errors.New("no such table: session_slots")
	err = helper.WithRetry(ctx, func() error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) || attempts != 1 {
		t.Fatalf("expected immediate failure, got %v after %d", err, attempts)
	}

	err = helper.WithRetry(ctx, func() error { return errors.New("database is locked") })
	if !errors.Is(err, errBusy) {
		t.Fatalf("expected busy error after retries, got %v", err)
	}
}

func TestSlotPing(t *testing.T) {
	ctx := context.Background()
	slot, err := Open(filepath.Join(t.TempDir(), "ping.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := slot.Ping(ctx); err != nil {
		t.Fatalf("expected ping to succeed, got %v", err)
	}
	if err := slot.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := slot.Ping(ctx); err == nil {
		t.Fatalf("expected ping on a closed slot to fail")
	}
}
