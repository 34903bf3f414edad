package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/toastmobile/ordering/internal/menu"
	"github.com/toastmobile/ordering/internal/middleware"
	"github.com/toastmobile/ordering/internal/models"
)

// CartHandler handles cart-related HTTP requests. The cart lives in the
// session state put on the context by the session middleware.
type CartHandler struct {
	menu   menuService
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(menu menuService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		menu:   menu,
		logger: logger,
	}
}

// CartResponse is the cart view returned to the client. Total is the
// exact sum rendered with two decimals; rounding happens only here.
type CartResponse struct {
	Lines []models.CartLine `json:"lines"`
	Total string            `json:"total"`
}

// AddItemRequest is the body of POST /api/cart/items. A missing quantity
// defaults to 1.
type AddItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	writeJSON(w, http.StatusOK, CartResponse{
		Lines: state.Cart.Lines(),
		Total: state.Cart.Total().StringFixed(2),
	})
}

// AddItem handles POST /api/cart/items
// The item is resolved against the current menu so the cart always
// carries menu prices, never client-supplied ones.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode add item request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MenuItemID == "" {
		writeError(w, http.StatusBadRequest, "menuItemId is required")
		return
	}

	item, degraded, err := h.menu.Item(r.Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, menu.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		h.logger.Error("failed to resolve menu item", "menu_item_id", req.MenuItemID, "error", err)
		writeError(w, http.StatusBadGateway, "Menu is currently unavailable")
		return
	}

	if degraded {
		h.logger.Warn("adding to cart from degraded menu", "menu_item_id", item.ID)
	}

	state.Cart.AddItem(item, req.Quantity)
	h.logger.Info("item added to cart", "menu_item_id", item.ID, "name", item.Name)

	writeJSON(w, http.StatusOK, CartResponse{
		Lines: state.Cart.Lines(),
		Total: state.Cart.Total().StringFixed(2),
	})
}
