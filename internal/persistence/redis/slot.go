package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/mahalla/internal/persistence"
)

// DefaultPrefix namespaces slot keys in a shared Redis database.
const DefaultPrefix = "mahalla:"

// commander is the subset of the go-redis client the slot relies on.
type commander interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Ping(ctx context.Context) *goredis.StatusCmd
}

// Options configures a Redis backed slot.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL expires stored values; zero keeps them until deleted.
	TTL time.Duration
}

// Slot implements persistence.SessionSlot with Redis string keys.
type Slot struct {
	client commander
	closer func() error
	prefix string
	ttl    time.Duration
}

var _ persistence.SessionSlot = (*Slot)(nil)

// Open connects to the server described by opts and verifies it answers PING.
func Open(ctx context.Context, opts Options) (*Slot, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	slot := newSlot(client, opts.Prefix, opts.TTL)
	slot.closer = client.Close
	if err := slot.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return slot, nil
}

func newSlot(client commander, prefix string, ttl time.Duration) *Slot {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Slot{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks that the server is reachable.
func (s *Slot) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close releases the client connection pool.
func (s *Slot) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *Slot) key(key string) string {
	return s.prefix + key
}

// Get returns the value stored under key.
func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := persistence.ValidateKey(key); err != nil {
		return nil, err
	}
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return value, nil
}

// Put stores value under key.
func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. It reports persistence.ErrNotFound when nothing was stored.
func (s *Slot) Delete(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	removed, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	if removed == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
