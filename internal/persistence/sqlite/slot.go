package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/mahalla/internal/persistence"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS session_slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// Slot implements persistence.SessionSlot on a SQLite table.
type Slot struct {
	pool   *ConnectionPool
	mapper ErrorMapper
	retry  *RetryHelper
	now    func() time.Time
}

var _ persistence.SessionSlot = (*Slot)(nil)

// Open opens the database at dsn with DefaultConfig.
func Open(dsn string) (*Slot, error) {
	pool, err := NewConnectionPool(DefaultConfig(dsn))
	if err != nil {
		return nil, err
	}
	return NewSlot(pool), nil
}

// NewSlot wraps an existing pool.
func NewSlot(pool *ConnectionPool) *Slot {
	return &Slot{
		pool:  pool,
		retry: NewRetryHelper(DefaultRetryConfig()),
		now:   time.Now,
	}
}

// Close releases the underlying pool.
func (s *Slot) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Ping checks that the database is reachable.
func (s *Slot) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the slot table when it does not exist.
func (s *Slot) Migrate(ctx context.Context) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: migrate: %w", err)
			}
		}
		return nil
	})
}

// Get returns the value stored under key.
func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := persistence.ValidateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.pool.DB().QueryRowContext(ctx, `SELECT value FROM session_slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return nil, s.mapper.MapError(err)
	}
	return value, nil
}

// Put stores value under key, replacing any previous value.
func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	return s.retry.WithRetry(ctx, func() error {
		_, err := s.pool.DB().ExecContext(ctx, `
			INSERT INTO session_slots (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, value, updatedAt)
		return err
	})
}

// Delete removes key. It reports persistence.ErrNotFound when nothing was stored.
func (s *Slot) Delete(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}

	var affected int64
	err := s.retry.WithRetry(ctx, func() error {
		res, err := s.pool.DB().ExecContext(ctx, `DELETE FROM session_slots WHERE key = ?`, key)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
