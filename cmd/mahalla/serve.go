package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/mahalla/internal/application"
	"github.com/example/mahalla/internal/config"
	httptransport "github.com/example/mahalla/internal/http"
	"github.com/example/mahalla/internal/logging"
	"github.com/example/mahalla/internal/persistence/memory"
	"github.com/example/mahalla/internal/persistence/redis"
	"github.com/example/mahalla/internal/persistence/sqlite"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Configuration is read from MAHALLA_* environment variables.

	mahalla serve
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := logging.New(os.Stdout, cfg.LogLevel)
			slog.SetDefault(logger)

			if err := serve(ctx, cfg, logger); err != nil {
				logger.Error("server encountered error", "error", err)
				return err
			}
			return nil
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	slot, closeSlot, err := openSessionSlot(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSlot(); cerr != nil {
			logger.Error("failed to close session slot", "error", cerr)
		}
	}()

	store, err := buildStore(ctx, cfg, slot, logger, nil)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           buildHandler(store, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("mahalla API listening", "addr", server.Addr, "session_backend", string(cfg.SessionBackend))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openSessionSlot connects the configured backend and returns its closer.
func openSessionSlot(ctx context.Context, cfg config.Config) (application.SessionSlot, func() error, error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return memory.NewSlot(), func() error { return nil }, nil
	case config.BackendRedis:
		slot, err := redis.Open(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis session slot: %w", err)
		}
		return slot, slot.Close, nil
	case config.BackendSQLite, "":
		slot, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite session slot: %w", err)
		}
		if err := slot.Ping(ctx); err != nil {
			_ = slot.Close()
			return nil, nil, fmt.Errorf("failed to reach sqlite session slot: %w", err)
		}
		if err := slot.Migrate(ctx); err != nil {
			_ = slot.Close()
			return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return slot, slot.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.SessionBackend)
	}
}

// buildStore seeds a store and restores a session persisted by a previous run.
// A nil hasher selects the default argon2id parameters.
func buildStore(ctx context.Context, cfg config.Config, slot application.SessionSlot, logger *slog.Logger, hasher application.PasswordHasher) (*application.Store, error) {
	store := application.NewStoreWithConfig(application.StoreConfig{
		Slot:         slot,
		HashPassword: hasher,
		Logger:       logger,
	})

	seed := application.AdminSeed(cfg.AdminPassword, cfg.AdminPasswordHash)
	if cfg.Seed {
		seed = application.DemoSeed(time.Now(), cfg.AdminPassword, cfg.AdminPasswordHash)
	}
	if err := store.Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	if _, _, err := store.RestoreSession(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return store, nil
}

func buildHandler(store *application.Store, cfg config.Config, logger *slog.Logger) http.Handler {
	labels := application.DefaultExportLabels()
	if cfg.Location != nil {
		labels.Location = cfg.Location
	}

	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(store, logger),
		Orders:    httptransport.NewOrderHandler(store, logger),
		Profile:   httptransport.NewProfileHandler(store, logger),
		Dashboard: httptransport.NewDashboardHandler(store, labels, logger),
		Users:     httptransport.NewUserHandler(store, logger),
		Reports:   httptransport.NewReportHandler(store, logger),
		Sessions:  store,
		Logger:    logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})
}
