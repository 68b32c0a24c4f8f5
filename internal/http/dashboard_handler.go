package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/mahalla/internal/application"
)

type dashboardStore interface {
	ListOrders(filter application.OrderFilter) []application.Order
	CancelOrder(ctx context.Context, orderID string) (application.Order, error)
	OrderReview(orderID string) (application.ReviewEntry, error)
}

// DashboardHandler serves the administrator order dashboard.
type DashboardHandler struct {
	store     dashboardStore
	labels    application.ExportLabels
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(store dashboardStore, labels application.ExportLabels, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{store: store, labels: labels, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DashboardHandler", operation, attrs...)
}

func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := orderFilterFromRequest(r)
	if err != nil {
		h.log(r.Context(), "List", "error_kind", "bad_request").WarnContext(r.Context(), "invalid order filter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	orders := h.store.ListOrders(filter)
	h.log(r.Context(), "List", "status", string(filter.Status), "result_count", len(orders)).InfoContext(r.Context(), "dashboard orders listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listOrdersResponse{Orders: toOrderDTOs(orders)})
}

// Export writes the filtered listing as a CSV attachment.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter, err := orderFilterFromRequest(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	orders := h.store.ListOrders(filter)
	logger := h.log(r.Context(), "Export", "result_count", len(orders))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := application.ExportOrdersCSV(w, orders, h.labels); err != nil {
		logger.ErrorContext(r.Context(), "order export failed", "error", err)
		return
	}
	logger.InfoContext(r.Context(), "orders exported")
}

func (h *DashboardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	actor, _ := SessionUserFromContext(r.Context())
	logger := h.log(r.Context(), "Cancel", "actor_id", actor.ID, "order_id", orderID)
	order, err := h.store.CancelOrder(r.Context(), orderID)
	if err != nil {
		logger.ErrorContext(r.Context(), "order cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "order canceled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: toOrderDTO(order)})
}

func (h *DashboardHandler) Review(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	orderID, ok := OrderIDFromContext(r.Context())
	if !ok || strings.TrimSpace(orderID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidOrderID)
		return
	}

	entry, err := h.store.OrderReview(orderID)
	if err != nil {
		h.log(r.Context(), "Review", "order_id", orderID).WarnContext(r.Context(), "review lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, reviewResponse{Review: toReviewDTO(entry)})
}

func orderFilterFromRequest(r *http.Request) (application.OrderFilter, error) {
	query := r.URL.Query()
	filter := application.OrderFilter{Search: query.Get("q")}
	if status := strings.TrimSpace(query.Get("status")); status != "" && status != "all" {
		filter.Status = application.OrderStatus(status)
		if !filter.Status.Valid() {
			return application.OrderFilter{}, errInvalidStatus
		}
	}
	return filter, nil
}
