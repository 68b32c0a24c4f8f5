package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/mahalla/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, component, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"component", component}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// logOutcome records the result of a store operation. Only unexpected errors
// are logged at error level.
func logOutcome(ctx context.Context, logger *slog.Logger, err error, failure, success string) {
	if err == nil {
		logger.InfoContext(ctx, success)
		return
	}
	kind := ErrorKind(err)
	switch kind {
	case "no_changes":
		logger.InfoContext(ctx, failure, "error_kind", kind)
	case "unexpected":
		logger.ErrorContext(ctx, failure, "error", err, "error_kind", kind)
	default:
		logger.WarnContext(ctx, failure, "error", err, "error_kind", kind)
	}
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrNoChanges):
		return "no_changes"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
