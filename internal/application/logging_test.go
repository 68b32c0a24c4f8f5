package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/mahalla/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthorized, "unauthorized"},
		{fmt.Errorf("wrap: %w", ErrNotFound), "not_found"},
		{ErrAlreadyExists, "already_exists"},
		{ErrInvalidState, "invalid_state"},
		{ErrNoChanges, "no_changes"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{&ValidationError{FieldErrors: map[string]string{"a": "b"}}, "validation"},
		{errors.New("boom"), "unexpected"},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestServiceLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctxLogger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)

	serviceLogger(ctx, slog.New(slog.NewJSONHandler(io.Discard, nil)), "Store", "CreateOrder", "order_id", "ORD001").Info("done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["component"] != "Store" || entry["operation"] != "CreateOrder" || entry["order_id"] != "ORD001" {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestLogOutcomeLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err   error
		level string
	}{
		{nil, "INFO"},
		{ErrNoChanges, "INFO"},
		{ErrNotFound, "WARN"},
		{errors.New("disk"), "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		logOutcome(context.Background(), logger, tt.err, "failed", "ok")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("decode log entry: %v", err)
		}
		if entry["level"] != tt.level {
			t.Fatalf("error %v: expected level %s, got %v", tt.err, tt.level, entry["level"])
		}
	}
}
