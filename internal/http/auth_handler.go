package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/mahalla/internal/application"
)

type authStore interface {
	Authenticate(ctx context.Context, username, password string) (application.User, error)
	EndSession(ctx context.Context) error
	CurrentUser() (application.User, bool)
}

type AuthHandler struct {
	store     authStore
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(store authStore, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login signs the posted credentials in and replaces any existing session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Login", "username", req.Username)
	user, err := h.store.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		logger.WarnContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "login succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(user))
}

// Logout ends the current session. Logging out twice is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Logout")
	if err := h.store.EndSession(r.Context()); err != nil {
		logger.ErrorContext(r.Context(), "logout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "logout succeeded")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Session describes the signed in user and the areas their role may open.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, ok := SessionUserFromContext(r.Context())
	if !ok {
		user, ok = h.store.CurrentUser()
	}
	if !ok {
		h.responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_REQUIRED",
			Message:   errSessionRequired.Error(),
		})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  userDTO  `json:"user"`
	Home  string   `json:"home"`
	Areas []string `json:"areas"`
}

func toSessionResponse(user application.User) sessionResponse {
	allowed := application.AllowedAreas(user.Role)
	areas := make([]string, 0, len(allowed))
	for _, a := range allowed {
		areas = append(areas, string(a))
	}
	return sessionResponse{
		User:  toUserDTO(user),
		Home:  string(application.HomeArea(user.Role)),
		Areas: areas,
	}
}
