package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var allKeys = []string{
	"MAHALLA_ENV",
	"MAHALLA_ENV_FILE",
	"MAHALLA_HTTP_PORT",
	"MAHALLA_SESSION_BACKEND",
	"MAHALLA_SQLITE_DSN",
	"MAHALLA_REDIS_ADDR",
	"MAHALLA_REDIS_PASSWORD",
	"MAHALLA_REDIS_DB",
	"MAHALLA_REDIS_PREFIX",
	"MAHALLA_REDIS_TTL",
	"MAHALLA_ADMIN_PASSWORD",
	"MAHALLA_ADMIN_PASSWORD_HASH",
	"MAHALLA_SEED",
	"MAHALLA_LOG_LEVEL",
	"MAHALLA_TIMEZONE",
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SessionBackend != BackendSQLite || cfg.SQLiteDSN != "mahalla.db" {
			t.Fatalf("unexpected default backend: %q %q", cfg.SessionBackend, cfg.SQLiteDSN)
		}
		if cfg.AdminPassword != "admin123" || cfg.AdminPasswordHash != "" {
			t.Fatalf("unexpected admin credentials: %q %q", cfg.AdminPassword, cfg.AdminPasswordHash)
		}
		if !cfg.Seed || cfg.LogLevel != slog.LevelInfo || cfg.Location != time.UTC {
			t.Fatalf("unexpected defaults: %#v", cfg)
		}
		if cfg.RedisPrefix != "mahalla:" {
			t.Fatalf("unexpected redis prefix %q", cfg.RedisPrefix)
		}
	})

	t.Run("parses explicit values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAHALLA_HTTP_PORT", "9090")
		t.Setenv("MAHALLA_SESSION_BACKEND", "Redis")
		t.Setenv("MAHALLA_REDIS_ADDR", "localhost:6379")
		t.Setenv("MAHALLA_REDIS_DB", "2")
		t.Setenv("MAHALLA_REDIS_PREFIX", "")
		t.Setenv("MAHALLA_REDIS_TTL", "12h")
		t.Setenv("MAHALLA_ADMIN_PASSWORD_HASH", "$argon2id$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
		t.Setenv("MAHALLA_SEED", "false")
		t.Setenv("MAHALLA_LOG_LEVEL", "debug")
		t.Setenv("MAHALLA_TIMEZONE", "Asia/Tashkent")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 || cfg.SessionBackend != BackendRedis || cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
			t.Fatalf("unexpected config: %#v", cfg)
		}
		if cfg.RedisPrefix != "" || cfg.RedisTTL != 12*time.Hour {
			t.Fatalf("unexpected redis settings: %q %v", cfg.RedisPrefix, cfg.RedisTTL)
		}
		if cfg.AdminPassword != "" || cfg.AdminPasswordHash == "" {
			t.Fatalf("expected hash to replace the default password")
		}
		if cfg.Seed || cfg.LogLevel != slog.LevelDebug || cfg.Location.String() != "Asia/Tashkent" {
			t.Fatalf("unexpected config: %#v", cfg)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAHALLA_SESSION_BACKEND", "redis")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: MAHALLA_REDIS_ADDR"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("aggregates invalid values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAHALLA_HTTP_PORT", "http")
		t.Setenv("MAHALLA_SESSION_BACKEND", "etcd")
		t.Setenv("MAHALLA_SEED", "sometimes")
		t.Setenv("MAHALLA_LOG_LEVEL", "loud")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: MAHALLA_HTTP_PORT, MAHALLA_SESSION_BACKEND, MAHALLA_SEED, MAHALLA_LOG_LEVEL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reads variables from an env file without overriding the process", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "mahalla.env")
		content := "MAHALLA_HTTP_PORT=7070\nMAHALLA_SQLITE_DSN=/tmp/from-file.db\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("MAHALLA_ENV_FILE", path)
		t.Setenv("MAHALLA_SQLITE_DSN", "process.db")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 7070 {
			t.Fatalf("expected port from file, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "process.db" {
			t.Fatalf("expected process value to win, got %q", cfg.SQLiteDSN)
		}
	})

	t.Run("fails on a missing env file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAHALLA_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for missing env file")
		}
	})
}
