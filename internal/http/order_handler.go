package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/mahalla/internal/application"
)

type orderStore interface {
	UserOrders(userID string) []application.Order
	OrderByID(id string) (application.Order, error)
	CreateOrder(ctx context.Context, userID string, orderType application.OrderType, description string) (application.Order, error)
	EditOrder(ctx context.Context, orderID string, orderType application.OrderType, description string) (application.Order, error)
	CloseOrder(ctx context.Context, orderID, userID string, rating int, comment string) (application.Order, application.Review, error)
	OrderReview(orderID string) (application.ReviewEntry, error)
}

// OrderHandler serves the resident order pages. Residents only see and
// change their own orders; other orders answer 404.
type OrderHandler struct {
	store     orderStore
	responder responder
	logger    *slog.Logger
}

func NewOrderHandler(store orderStore, logger *slog.Logger) *OrderHandler {
	base := defaultLogger(logger)
	return &OrderHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *OrderHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "OrderHandler", operation, attrs...)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, _ := SessionUserFromContext(r.Context())
	orders := h.store.UserOrders(user.ID)
	h.log(r.Context(), "List", "user_id", user.ID, "result_count", len(orders)).InfoContext(r.Context(), "orders listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOrdersResponse{Orders: toOrderDTOs(orders)})
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user, _ := SessionUserFromContext(r.Context())

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "user_id", user.ID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode order request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "user_id", user.ID)
	order, err := h.store.CreateOrder(r.Context(), user.ID, application.OrderType(req.Type), req.Description)
	if err != nil {
		logger.ErrorContext(r.Context(), "order creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("order_id", order.ID).InfoContext(r.Context(), "order created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, orderResponse{Order: toOrderDTO(order)})
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing order id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	user, _ := SessionUserFromContext(r.Context())

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "user_id", user.ID, "order_id", orderID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode order update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "user_id", user.ID, "order_id", orderID)
	order, err := h.ownedOrder(user, orderID)
	if err == nil && order.Status != application.OrderStatusOpen {
		// Residents edit open orders only.
		err = application.ErrInvalidState
	}
	if err == nil {
		order, err = h.store.EditOrder(r.Context(), orderID, application.OrderType(req.Type), req.Description)
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "order update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "order updated", "edited_fields", order.EditedFields)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Changed: true, Order: toOrderDTO(order)})
}

func (h *OrderHandler) Close(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.log(r.Context(), "Close", "error_kind", "bad_request").ErrorContext(r.Context(), "missing order id for close")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	user, _ := SessionUserFromContext(r.Context())

	var req closeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Close", "user_id", user.ID, "order_id", orderID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode close request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Close", "user_id", user.ID, "order_id", orderID)
	if _, err := h.ownedOrder(user, orderID); err != nil {
		logger.ErrorContext(r.Context(), "order close failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	order, review, err := h.store.CloseOrder(r.Context(), orderID, user.ID, req.Rating, req.Comment)
	if err != nil {
		logger.ErrorContext(r.Context(), "order close failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("review_id", review.ID).InfoContext(r.Context(), "order closed")
	dto := toReviewDTO(application.ReviewEntry{Review: review})
	h.responder.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: toOrderDTO(order), Review: &dto})
}

func (h *OrderHandler) Review(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	user, _ := SessionUserFromContext(r.Context())
	_, err := h.ownedOrder(user, orderID)
	var entry application.ReviewEntry
	if err == nil {
		entry, err = h.store.OrderReview(orderID)
	}
	if err != nil {
		h.log(r.Context(), "Review", "user_id", user.ID, "order_id", orderID).
			WarnContext(r.Context(), "review lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reviewResponse{Review: toReviewDTO(entry)})
}

func (h *OrderHandler) ownedOrder(user application.User, orderID string) (application.Order, error) {
	order, err := h.store.OrderByID(orderID)
	if err != nil {
		return application.Order{}, err
	}
	if order.UserID != user.ID {
		return application.Order{}, application.ErrNotFound
	}
	return order, nil
}

type orderRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type closeOrderRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type orderResponse struct {
	Changed bool       `json:"changed,omitempty"`
	Order   orderDTO   `json:"order"`
	Review  *reviewDTO `json:"review,omitempty"`
}

type listOrdersResponse struct {
	Orders []orderDTO `json:"orders"`
}

type orderDTO struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Status       string   `json:"status"`
	CommentID    string   `json:"comment_id,omitempty"`
	LastEditedAt string   `json:"last_edited_at,omitempty"`
	EditedFields []string `json:"edited_fields,omitempty"`
}

func toOrderDTO(order application.Order) orderDTO {
	dto := orderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		Type:        string(order.Type),
		Description: order.Description,
		Date:        order.Date.UTC().Format(time.RFC3339Nano),
		Status:      string(order.Status),
		CommentID:   order.CommentID,
	}
	if order.LastEditedAt != nil {
		dto.LastEditedAt = order.LastEditedAt.UTC().Format(time.RFC3339Nano)
	}
	for _, f := range order.EditedFields {
		dto.EditedFields = append(dto.EditedFields, string(f))
	}
	return dto
}

func toOrderDTOs(orders []application.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderDTO(order))
	}
	return out
}
