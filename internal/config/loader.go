package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// SessionBackend selects where the current-session slot is stored.
type SessionBackend string

const (
	BackendSQLite SessionBackend = "sqlite"
	BackendRedis  SessionBackend = "redis"
	BackendMemory SessionBackend = "memory"
)

// Config captures environment driven configuration values for the service desk.
type Config struct {
	HTTPPort       int
	SessionBackend SessionBackend
	SQLiteDSN      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisTTL      time.Duration

	AdminPassword     string
	AdminPasswordHash string
	Seed              bool

	LogLevel slog.Level
	Location *time.Location
}

// Load parses configuration values from the current process environment.
//
// When MAHALLA_ENV_FILE names a file, or MAHALLA_ENV is "dev", variables from
// that file (or ./.env) are added first; variables already set in the
// process win. Missing and invalid entries are reported together.
func Load() (Config, error) {
	if file := strings.TrimSpace(os.Getenv("MAHALLA_ENV_FILE")); file != "" {
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	} else if os.Getenv("MAHALLA_ENV") == "dev" {
		_ = godotenv.Load()
	}

	cfg := Config{
		HTTPPort:       8080,
		SessionBackend: BackendSQLite,
		SQLiteDSN:      "mahalla.db",
		RedisPrefix:    "mahalla:",
		AdminPassword:  "admin123",
		Seed:           true,
		LogLevel:       slog.LevelInfo,
		Location:       time.UTC,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := env("MAHALLA_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "MAHALLA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if backend := env("MAHALLA_SESSION_BACKEND"); backend != "" {
		switch SessionBackend(strings.ToLower(backend)) {
		case BackendSQLite, BackendRedis, BackendMemory:
			cfg.SessionBackend = SessionBackend(strings.ToLower(backend))
		default:
			invalid = append(invalid, "MAHALLA_SESSION_BACKEND")
		}
	}

	if dsn := env("MAHALLA_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.RedisAddr = env("MAHALLA_REDIS_ADDR")
	if cfg.SessionBackend == BackendRedis && cfg.RedisAddr == "" {
		missing = append(missing, "MAHALLA_REDIS_ADDR")
	}
	cfg.RedisPassword = os.Getenv("MAHALLA_REDIS_PASSWORD")
	if dbValue := env("MAHALLA_REDIS_DB"); dbValue != "" {
		db, err := strconv.Atoi(dbValue)
		if err != nil || db < 0 {
			invalid = append(invalid, "MAHALLA_REDIS_DB")
		} else {
			cfg.RedisDB = db
		}
	}
	if prefix, ok := os.LookupEnv("MAHALLA_REDIS_PREFIX"); ok {
		cfg.RedisPrefix = prefix
	}
	if ttlValue := env("MAHALLA_REDIS_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl < 0 {
			invalid = append(invalid, "MAHALLA_REDIS_TTL")
		} else {
			cfg.RedisTTL = ttl
		}
	}

	if hash := env("MAHALLA_ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.AdminPasswordHash = hash
		cfg.AdminPassword = ""
	} else if password, ok := os.LookupEnv("MAHALLA_ADMIN_PASSWORD"); ok {
		if password == "" {
			invalid = append(invalid, "MAHALLA_ADMIN_PASSWORD")
		}
		cfg.AdminPassword = password
	}

	if seedValue := env("MAHALLA_SEED"); seedValue != "" {
		seed, err := strconv.ParseBool(seedValue)
		if err != nil {
			invalid = append(invalid, "MAHALLA_SEED")
		} else {
			cfg.Seed = seed
		}
	}

	if levelValue := env("MAHALLA_LOG_LEVEL"); levelValue != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "MAHALLA_LOG_LEVEL")
		}
	}

	if tz := env("MAHALLA_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "MAHALLA_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
