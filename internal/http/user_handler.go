package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/mahalla/internal/application"
)

type userStore interface {
	ListResidents(search string) []application.User
	CreateResidentUser(ctx context.Context, apartment, room, password string, membersCount int) (application.User, error)
	EditUser(ctx context.Context, userID, apartment, room string, membersCount int) (application.User, error)
	UserByID(id string) (application.User, error)
}

// UserHandler serves the administrator resident management pages.
type UserHandler struct {
	store     userStore
	responder responder
	logger    *slog.Logger
}

func NewUserHandler(store userStore, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actor, _ := SessionUserFromContext(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "actor_id", actor.ID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode user request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "actor_id", actor.ID)
	user, err := h.store.CreateResidentUser(r.Context(), req.Apartment, req.Room, req.Password, req.MembersCount)
	if err != nil {
		logger.ErrorContext(r.Context(), "user creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, userResponse{User: toUserDTO(user)})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing user id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	actor, _ := SessionUserFromContext(r.Context())

	var req residenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "actor_id", actor.ID, "user_id", userID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode user update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "actor_id", actor.ID, "user_id", userID)

	// Only resident accounts are managed here.
	target, err := h.store.UserByID(userID)
	if err == nil && target.IsAdmin() {
		err = application.ErrUnauthorized
	}
	if err == nil {
		target, err = h.store.EditUser(r.Context(), userID, req.Apartment, req.Room, req.MembersCount)
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "user update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "user updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{Changed: true, User: toUserDTO(target)})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	search := r.URL.Query().Get("q")
	users := h.store.ListResidents(search)
	h.log(r.Context(), "List", "result_count", len(users)).InfoContext(r.Context(), "residents listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listUsersResponse{Users: toUserDTOs(users)})
}

type createUserRequest struct {
	Apartment    string `json:"apartment"`
	Room         string `json:"room"`
	Password     string `json:"password"`
	MembersCount int    `json:"members_count"`
}

type residenceRequest struct {
	Apartment    string `json:"apartment"`
	Room         string `json:"room"`
	MembersCount int    `json:"members_count"`
}

type userResponse struct {
	Changed bool    `json:"changed,omitempty"`
	User    userDTO `json:"user"`
}

type listUsersResponse struct {
	Users []userDTO `json:"users"`
}

type userDTO struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Apartment    string `json:"apartment,omitempty"`
	Room         string `json:"room,omitempty"`
	MembersCount int    `json:"members_count,omitempty"`
}

func toUserDTO(user application.User) userDTO {
	return userDTO{
		ID:           user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
		Apartment:    user.Apartment,
		Room:         user.Room,
		MembersCount: user.MembersCount,
	}
}

func toUserDTOs(users []application.User) []userDTO {
	out := make([]userDTO, 0, len(users))
	for _, user := range users {
		out = append(out, toUserDTO(user))
	}
	return out
}
