package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/toastmobile/ordering/internal/cart"
	"github.com/toastmobile/ordering/internal/checkout"
	"github.com/toastmobile/ordering/internal/middleware"
	"github.com/toastmobile/ordering/internal/models"
)

// checkoutService is the interface for order submission
type checkoutService interface {
	Submit(ctx context.Context, c *cart.Cart, req checkout.SubmitRequest) (*models.OrderRecord, error)
}

// CheckoutHandler handles order submission requests
type CheckoutHandler struct {
	service checkoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(service checkoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

// CheckoutRequest is the body of POST /api/checkout.
type CheckoutRequest struct {
	Customer  models.CustomerInfo `json:"customer"`
	Payment   models.PaymentInfo  `json:"payment"`
	PromoCode string              `json:"promoCode,omitempty"`
}

// Submit handles POST /api/checkout
//
// The four failure kinds map to distinct responses. PaymentError and
// PersistenceError mean the customer may already have been charged, so
// their bodies carry the order and payment ids instead of a generic
// "try again" message.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode checkout request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.service.Submit(r.Context(), state.Cart, checkout.SubmitRequest{
		Customer:    req.Customer,
		Payment:     req.Payment,
		PromoCode:   req.PromoCode,
		AccessToken: state.AccessToken(),
	})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	h.logger.Info("order submitted", "order_id", record.ID, "guest", record.UserID == "")
	writeJSON(w, http.StatusCreated, record)
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	var (
		verr *checkout.ValidationError
		oerr *checkout.OrderCreationError
		perr *checkout.PaymentError
		serr *checkout.PersistenceError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid checkout input",
			"field": verr.Field,
			"message": verr.Message,
		})

	case errors.As(err, &oerr):
		h.logger.Error("order creation failed", "error", err)
		// Nothing was charged; retrying is safe.
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Order could not be created",
			"message": "You have not been charged. Please try again.",
		})

	case errors.As(err, &perr):
		h.logger.Error("payment failed", "order_id", perr.OrderID, "error", err)
		writeJSON(w, http.StatusPaymentRequired, map[string]string{
			"error":   "Payment failed",
			"orderId": perr.OrderID,
			"message": "Your card was not charged. Quote the order id if the problem persists.",
		})

	case errors.As(err, &serr):
		h.logger.Error("order charged but not saved",
			"order_id", serr.OrderID,
			"payment_id", serr.PaymentID,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":     "Order placed but not saved to your account",
			"orderId":   serr.OrderID,
			"paymentId": serr.PaymentID,
			"message":   "You HAVE been charged. Keep these ids and contact support; do not resubmit.",
		})

	default:
		h.logger.Error("checkout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
