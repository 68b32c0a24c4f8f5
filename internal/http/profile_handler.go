package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/mahalla/internal/application"
)

type profileStore interface {
	EditUser(ctx context.Context, userID, apartment, room string, membersCount int) (application.User, error)
}

// ProfileHandler lets residents view and edit their own residence details.
type ProfileHandler struct {
	store     profileStore
	responder responder
	logger    *slog.Logger
}

func NewProfileHandler(store profileStore, logger *slog.Logger) *ProfileHandler {
	base := defaultLogger(logger)
	return &ProfileHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	user, _ := SessionUserFromContext(r.Context())
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(user)})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, _ := SessionUserFromContext(r.Context())
	logger := handlerLogger(r.Context(), h.logger, "ProfileHandler", "Update", "user_id", user.ID)

	var req residenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.ErrorContext(r.Context(), "failed to decode profile update", "error", err, "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	updated, err := h.store.EditUser(r.Context(), user.ID, req.Apartment, req.Room, req.MembersCount)
	if err != nil {
		logger.ErrorContext(r.Context(), "profile update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "profile updated", "username", updated.Username)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{Changed: true, User: toUserDTO(updated)})
}
