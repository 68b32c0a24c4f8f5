package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/example/mahalla/internal/application"
	"github.com/example/mahalla/internal/persistence/memory"
)

// StoreFactory assists tests with constructing stores using deterministic
// identifiers, clocks, and a fast password hasher.
type StoreFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// StoreFactoryOption configures a StoreFactory instance.
type StoreFactoryOption func(*StoreFactory)

// NewStoreFactory constructs a StoreFactory with defaults.
func NewStoreFactory(opts ...StoreFactoryOption) *StoreFactory {
	factory := &StoreFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("user")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) StoreFactoryOption {
	return func(factory *StoreFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) StoreFactoryOption {
	return func(factory *StoreFactory) {
		factory.IDGenerator = generator
	}
}

// StoreDeps captures optional overrides for NewStore.
type StoreDeps struct {
	Slot   application.SessionSlot
	Seed   *application.SeedData
	Logger *slog.Logger
}

// NewStore builds a seeded store. Without overrides it uses an in-memory
// slot, DemoSeed at the factory clock, and a discarding logger.
func (f *StoreFactory) NewStore(tb testing.TB, deps StoreDeps) *application.Store {
	tb.Helper()

	slot := deps.Slot
	if slot == nil {
		slot = memory.NewSlot()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	store := application.NewStoreWithConfig(application.StoreConfig{
		Slot:           slot,
		IDGenerator:    f.IDGenerator.NextFunc(),
		Now:            f.Clock.NowFunc(),
		HashPassword:   PlainHasher,
		VerifyPassword: PlainVerifier,
		Logger:         logger,
	})

	seed := application.DemoSeed(f.Clock.Now(), "admin123", "")
	if deps.Seed != nil {
		seed = *deps.Seed
	}
	if err := store.Seed(context.Background(), seed); err != nil {
		tb.Fatalf("failed to seed store: %v", err)
	}
	return store
}
