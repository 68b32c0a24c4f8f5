package redis

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/mahalla/internal/persistence"
)

type commanderStub struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	failing error
}

func newCommanderStub() *commanderStub {
	return &commanderStub{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *commanderStub) Get(ctx context.Context, key string) *goredis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return goredis.NewStringResult("", c.failing)
	}
	v, ok := c.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (c *commanderStub) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return goredis.NewStatusResult("", c.failing)
	}
	c.values[key] = string(value.([]byte))
	c.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (c *commanderStub) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing != nil {
		return goredis.NewIntResult(0, c.failing)
	}
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (c *commanderStub) Ping(ctx context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", c.failing)
}

func TestSlotWithStubbedClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stub := newCommanderStub()
	slot := newSlot(stub, "", 30*time.Minute)

	if _, err := slot.Get(ctx, "currentUser"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := slot.Put(ctx, "currentUser", []byte(`{"id":"admin"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, ok := stub.values["mahalla:currentUser"]; !ok {
		t.Fatalf("expected prefixed key, got %v", stub.values)
	}
	if stub.ttls["mahalla:currentUser"] != 30*time.Minute {
		t.Fatalf("expected ttl to be forwarded, got %v", stub.ttls)
	}

	got, err := slot.Get(ctx, "currentUser")
	if err != nil || string(got) != `{"id":"admin"}` {
		t.Fatalf("unexpected value %q (%v)", got, err)
	}
	if err := slot.Delete(ctx, "currentUser"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := slot.Delete(ctx, "currentUser"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSlotWrapsClientErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	stub := newCommanderStub()
	stub.failing = errors.New("connection refused")
	slot := newSlot(stub, "test:", 0)

	if _, err := slot.Get(ctx, "k"); err == nil || errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
	if err := slot.Put(ctx, "k", nil); !errors.Is(err, stub.failing) {
		t.Fatalf("expected client error, got %v", err)
	}
	if err := slot.Delete(ctx, "k"); !errors.Is(err, stub.failing) {
		t.Fatalf("expected client error, got %v", err)
	}
	if err := slot.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestOpenRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error for empty address")
	}
}

func TestSlotAgainstServer(t *testing.T) {
	addr := os.Getenv("MAHALLA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MAHALLA_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	slot, err := Open(ctx, Options{Addr: addr, Prefix: "mahalla-test:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = slot.Close() })

	_ = slot.Delete(ctx, "currentUser")
	if err := slot.Put(ctx, "currentUser", []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := slot.Get(ctx, "currentUser")
	if err != nil || string(got) != "v" {
		t.Fatalf("unexpected value %q (%v)", got, err)
	}
	if err := slot.Delete(ctx, "currentUser"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}
