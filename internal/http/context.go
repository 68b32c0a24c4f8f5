package http

import (
	"context"
	"log/slog"

	"github.com/example/mahalla/internal/application"
	"github.com/example/mahalla/internal/logging"
)

type contextKey string

const (
	sessionUserContextKey contextKey = "session_user"
	orderIDContextKey     contextKey = "order_id"
	userIDContextKey      contextKey = "user_id"
)

// ContextWithSessionUser returns a derived context containing the signed in user.
func ContextWithSessionUser(ctx context.Context, user application.User) context.Context {
	return context.WithValue(ctx, sessionUserContextKey, user)
}

// SessionUserFromContext extracts the signed in user from context if available.
func SessionUserFromContext(ctx context.Context) (application.User, bool) {
	user, ok := ctx.Value(sessionUserContextKey).(application.User)
	return user, ok
}

// ContextWithOrderID injects the order identifier resolved from the request path.
func ContextWithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDContextKey, orderID)
}

// OrderIDFromContext extracts an order identifier previously associated with the context.
func OrderIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(orderIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
