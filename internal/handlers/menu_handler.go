package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/toastmobile/ordering/internal/models"
)

// menuService is the interface for menu retrieval
type menuService interface {
	Get(ctx context.Context) ([]models.MenuItem, bool, error)
	Item(ctx context.Context, id string) (models.MenuItem, bool, error)
}

// MenuHandler handles menu-related HTTP requests
type MenuHandler struct {
	service menuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service menuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// MenuResponse carries the menu plus the degraded flag: true means the
// POS was unreachable and the items are a stale snapshot.
type MenuResponse struct {
	Items    []models.MenuItem `json:"items"`
	Degraded bool              `json:"degraded"`
}

// GetMenu handles GET /api/menu
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items, degraded, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load menu", "error", err)
		writeError(w, http.StatusBadGateway, "Menu is currently unavailable")
		return
	}

	if degraded {
		h.logger.Warn("serving degraded menu")
	}

	writeJSON(w, http.StatusOK, MenuResponse{Items: items, Degraded: degraded})
}
