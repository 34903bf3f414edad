package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toastmobile/ordering/internal/middleware"
	"github.com/toastmobile/ordering/internal/models"
)

// orderStore is the interface for backend order reads and updates
type orderStore interface {
	GetUserOrders(ctx context.Context, userID, accessToken string) ([]models.OrderRecord, error)
	UpdateOrderStatus(ctx context.Context, orderRef string, status models.OrderStatus, accessToken string) error
}

// statusFetcher is the interface for POS order status lookups
type statusFetcher interface {
	GetOrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error)
}

// OrdersHandler handles order history and status requests
type OrdersHandler struct {
	store  orderStore
	pos    statusFetcher
	logger *slog.Logger
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(store orderStore, pos statusFetcher, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		store:  store,
		pos:    pos,
		logger: logger,
	}
}

// History handles GET /api/orders
// Order history is account-scoped, so a guest session gets 401.
func (h *OrdersHandler) History(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	if state.User == nil {
		writeError(w, http.StatusUnauthorized, "Sign in to view order history")
		return
	}

	orders, err := h.store.GetUserOrders(r.Context(), state.User.Username, state.AccessToken())
	if err != nil {
		h.logger.Error("failed to load order history", "user_id", state.User.Username, "error", err)
		writeError(w, http.StatusBadGateway, "Order history is currently unavailable")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Status handles GET /api/orders/{orderId}/status
// The status comes live from the POS, not from the persisted record.
func (h *OrdersHandler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	status, err := h.pos.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to fetch order status", "order_id", orderID, "error", err)
		writeError(w, http.StatusBadGateway, "Order status is currently unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.OrderStatus{"status": status})
}

// UpdateStatusRequest is the body of PUT /api/orders/{orderId}.
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus handles PUT /api/orders/{orderId}
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())
	orderRef := chi.URLParam(r, "orderId")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !models.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	if err := h.store.UpdateOrderStatus(r.Context(), orderRef, req.Status, state.AccessToken()); err != nil {
		h.logger.Error("failed to update order status", "order_ref", orderRef, "error", err)
		writeError(w, http.StatusBadGateway, "Order status could not be updated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.OrderStatus{"status": req.Status})
}
