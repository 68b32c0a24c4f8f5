package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/mahalla/internal/application"
)

type reportStore interface {
	ListReviews(search string) []application.ReviewEntry
	Statistics() application.Statistics
}

// ReportHandler serves the administrator reviews and statistics pages.
type ReportHandler struct {
	store     reportStore
	responder responder
	logger    *slog.Logger
}

func NewReportHandler(store reportStore, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *ReportHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReportHandler", operation, attrs...)
}

func (h *ReportHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entries := h.store.ListReviews(r.URL.Query().Get("q"))
	out := make([]reviewDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toReviewDTO(e))
	}
	h.log(r.Context(), "Reviews", "result_count", len(out)).InfoContext(r.Context(), "reviews listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReviewsResponse{Reviews: out})
}

func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.store == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	stats := h.store.Statistics()
	resp := statisticsResponse{
		TotalOrders:    stats.TotalOrders,
		OpenOrders:     stats.OpenOrders,
		ClosedOrders:   stats.ClosedOrders,
		CanceledOrders: stats.CanceledOrders,
		MostActive:     make([]activeUserDTO, 0, len(stats.MostActive)),
	}
	for _, a := range stats.MostActive {
		resp.MostActive = append(resp.MostActive, activeUserDTO{UserID: a.UserID, Username: a.Username, OrderCount: a.OrderCount})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type reviewResponse struct {
	Review reviewDTO `json:"review"`
}

type listReviewsResponse struct {
	Reviews []reviewDTO `json:"reviews"`
}

type reviewDTO struct {
	ID      string   `json:"id"`
	OrderID string   `json:"order_id"`
	UserID  string   `json:"user_id"`
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Date    string   `json:"date"`
	Author  *userDTO `json:"author,omitempty"`
}

func toReviewDTO(entry application.ReviewEntry) reviewDTO {
	r := entry.Review
	dto := reviewDTO{
		ID:      r.ID,
		OrderID: r.OrderID,
		UserID:  r.UserID,
		Rating:  r.Rating,
		Comment: r.Comment,
		Date:    r.Date.UTC().Format(time.RFC3339Nano),
	}
	if entry.Author != nil {
		author := toUserDTO(*entry.Author)
		dto.Author = &author
	}
	return dto
}

type statisticsResponse struct {
	TotalOrders    int             `json:"total_orders"`
	OpenOrders     int             `json:"open_orders"`
	ClosedOrders   int             `json:"closed_orders"`
	CanceledOrders int             `json:"canceled_orders"`
	MostActive     []activeUserDTO `json:"most_active"`
}

type activeUserDTO struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	OrderCount int    `json:"order_count"`
}
