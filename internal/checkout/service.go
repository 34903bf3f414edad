// Package checkout implements the order submission workflow: validate
// input, create the POS order, charge the card, persist the record,
// report the outcome. The four remote calls are strictly sequential
// because each step threads an id obtained from the previous one.
//
// There are no retries and no idempotency keys: a transient failure
// followed by a user retry can create a duplicate POS order or charge.
// That matches the deployed behavior this module reproduces.
package checkout

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/toastmobile/ordering/internal/cart"
	"github.com/toastmobile/ordering/internal/models"
	"github.com/toastmobile/ordering/internal/toast"
)

// POSClient is the slice of the Toast client the workflow needs.
type POSClient interface {
	CreateOrder(ctx context.Context, payload toast.OrderPayload) (*toast.Order, error)
	ProcessPayment(ctx context.Context, payload toast.PaymentPayload) (*toast.Payment, error)
}

// OrderStore persists confirmed orders for signed-in users.
type OrderStore interface {
	SaveOrder(ctx context.Context, record models.OrderRecord, accessToken string) (string, error)
}

// Identity resolves the session behind an access token. An absent session
// is (nil, nil), not an error.
type Identity interface {
	CurrentUser(ctx context.Context, accessToken string) (*models.Session, error)
}

// PromoValidator checks promo codes. Validation is local; no remote call.
type PromoValidator interface {
	IsValid(ctx context.Context, code string) bool
}

// Service orchestrates order submission.
type Service struct {
	pos      POSClient
	store    OrderStore
	identity Identity
	promo    PromoValidator // nil when promo support is disabled
	log      *slog.Logger
}

// NewService creates a checkout service. promo may be nil.
func NewService(pos POSClient, store OrderStore, identity Identity, promo PromoValidator, log *slog.Logger) *Service {
	return &Service{
		pos:      pos,
		store:    store,
		identity: identity,
		promo:    promo,
		log:      log,
	}
}

// SubmitRequest carries the checkout form input plus the session's access
// token (empty for guests).
type SubmitRequest struct {
	Customer    models.CustomerInfo
	Payment     models.PaymentInfo
	PromoCode   string
	AccessToken string
}

// Submit runs the workflow against the given cart. On success the cart is
// cleared and the enriched order record returned. On failure the error is
// one of *ValidationError, *OrderCreationError, *PaymentError or
// *PersistenceError; the cart is cleared only once the charge succeeded,
// since at that point the purchase did happen.
func (s *Service) Submit(ctx context.Context, c *cart.Cart, req SubmitRequest) (*models.OrderRecord, error) {
	if err := s.validate(ctx, c, req); err != nil {
		return nil, err
	}

	submittedAt := time.Now().UTC()
	lines := c.Lines()
	total, _ := c.Total().Float64()

	items := make([]toast.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, toast.OrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Price:      line.Price,
		})
	}

	order, err := s.pos.CreateOrder(ctx, toast.OrderPayload{
		Items:     items,
		Customer:  req.Customer,
		Total:     total,
		Timestamp: submittedAt.Format(time.RFC3339),
		PromoCode: req.PromoCode,
	})
	if err != nil {
		s.log.Error("order creation failed", "error", err)
		return nil, &OrderCreationError{Err: err}
	}

	s.log.Info("order created", "order_id", order.ID, "total", total)

	payment, err := s.pos.ProcessPayment(ctx, toast.PaymentPayload{
		OrderID: order.ID,
		Amount:  total,
		PaymentMethod: toast.PaymentMethod{
			Type:           "CREDIT_CARD",
			CardNumber:     req.Payment.CardNumber,
			ExpiryDate:     req.Payment.ExpiryDate,
			CVV:            req.Payment.CVV,
			CardholderName: req.Payment.CardholderName,
		},
	})
	if err != nil {
		// The POS order stays open; surface its id so it can be cancelled
		// out of band.
		s.log.Error("payment failed, POS order left open", "order_id", order.ID, "error", err)
		return nil, &PaymentError{OrderID: order.ID, Err: err}
	}

	s.log.Info("payment captured", "order_id", order.ID, "payment_id", payment.ID)

	record := &models.OrderRecord{
		ID:        order.ID,
		Items:     lines,
		Customer:  req.Customer,
		Total:     total,
		Timestamp: submittedAt,
		Status:    models.StatusConfirmed,
		PaymentID: payment.ID,
		PromoCode: req.PromoCode,
	}

	// From here on the purchase has happened, so the cart is cleared on
	// every path.
	defer c.Clear()

	session, err := s.identity.CurrentUser(ctx, req.AccessToken)
	if err != nil {
		// Charged, but we cannot even tell whose order it is. Same class
		// of outcome as a failed save: money moved, record lost.
		s.log.Error("identity lookup failed after charge", "order_id", order.ID, "payment_id", payment.ID, "error", err)
		return nil, &PersistenceError{OrderID: order.ID, PaymentID: payment.ID, Err: err}
	}

	if session == nil {
		// Guest checkout: the order is not associated with any account.
		s.log.Info("guest checkout, skipping persistence", "order_id", order.ID)
		return record, nil
	}

	record.UserID = session.Username

	ref, err := s.store.SaveOrder(ctx, *record, session.AccessToken)
	if err != nil {
		s.log.Error("order save failed after charge", "order_id", order.ID, "payment_id", payment.ID, "error", err)
		return nil, &PersistenceError{OrderID: order.ID, PaymentID: payment.ID, Err: err}
	}

	record.BackendRef = ref
	s.log.Info("order persisted", "order_id", order.ID, "backend_ref", ref, "user_id", record.UserID)

	return record, nil
}

// validate checks field presence only. Card number, expiry and CVV get no
// structural validation here; the POS rejects bad cards.
func (s *Service) validate(ctx context.Context, c *cart.Cart, req SubmitRequest) error {
	if c.IsEmpty() {
		return &ValidationError{Field: "cart", Message: "cart is empty"}
	}

	required := []struct {
		field string
		value string
	}{
		{"customer.name", req.Customer.Name},
		{"customer.email", req.Customer.Email},
		{"customer.phone", req.Customer.Phone},
		{"payment.cardNumber", req.Payment.CardNumber},
		{"payment.expiryDate", req.Payment.ExpiryDate},
		{"payment.cvv", req.Payment.CVV},
		{"payment.cardholderName", req.Payment.CardholderName},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Message: "is required"}
		}
	}

	if req.PromoCode != "" {
		if s.promo == nil {
			return &ValidationError{Field: "promoCode", Message: "promo codes are not enabled"}
		}
		if !s.promo.IsValid(ctx, req.PromoCode) {
			return &ValidationError{Field: "promoCode", Message: "code is not valid"}
		}
	}

	return nil
}
