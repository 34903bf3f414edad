package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/toastmobile/ordering/internal/cart"
	"github.com/toastmobile/ordering/internal/checkout"
	"github.com/toastmobile/ordering/internal/middleware"
	"github.com/toastmobile/ordering/internal/models"
	"github.com/toastmobile/ordering/internal/session"
	"github.com/toastmobile/ordering/pkg/logger"
)

type stubCheckout struct {
	record *models.OrderRecord
	err    error
	calls  int
}

func (s *stubCheckout) Submit(ctx context.Context, c *cart.Cart, req checkout.SubmitRequest) (*models.OrderRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func checkoutBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(CheckoutRequest{
		Customer: models.CustomerInfo{Name: "Alice", Email: "a@example.com", Phone: "555-0101"},
		Payment: models.PaymentInfo{
			CardNumber: "4242424242424242", ExpiryDate: "12/28", CVV: "123", CardholderName: "Alice A",
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

// doCheckout runs a checkout request through the session middleware the
// way the router wires it.
func doCheckout(t *testing.T, svc checkoutService, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()

	store := session.NewStore()
	token, _ := store.Create()

	handler := NewCheckoutHandler(svc, logger.New("error"))
	wrapped := middleware.RequireSession(store)(http.HandlerFunc(handler.Submit))

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", body)
	req.Header.Set(middleware.SessionHeader, token)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)
	return w
}

func TestSubmit_Success(t *testing.T) {
	svc := &stubCheckout{record: &models.OrderRecord{
		ID:        "toast-42",
		PaymentID: "pay-7",
		Status:    models.StatusConfirmed,
		Total:     34.97,
	}}

	w := doCheckout(t, svc, checkoutBody(t))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var record models.OrderRecord
	if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if record.ID != "toast-42" || record.Status != models.StatusConfirmed {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestSubmit_ValidationError(t *testing.T) {
	svc := &stubCheckout{err: &checkout.ValidationError{Field: "customer.email", Message: "is required"}}

	w := doCheckout(t, svc, checkoutBody(t))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["field"] != "customer.email" {
		t.Errorf("expected the failing field in the response, got %v", resp)
	}
}

func TestSubmit_OrderCreationError(t *testing.T) {
	svc := &stubCheckout{err: &checkout.OrderCreationError{Err: context.DeadlineExceeded}}

	w := doCheckout(t, svc, checkoutBody(t))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != "Order could not be created" {
		t.Errorf("unexpected body: %v", resp)
	}
}

func TestSubmit_PaymentError(t *testing.T) {
	svc := &stubCheckout{err: &checkout.PaymentError{OrderID: "toast-42", Err: context.DeadlineExceeded}}

	w := doCheckout(t, svc, checkoutBody(t))

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", w.Code)
	}

	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["orderId"] != "toast-42" {
		t.Errorf("expected the dangling order id in the response, got %v", resp)
	}
}

func TestSubmit_PersistenceError(t *testing.T) {
	svc := &stubCheckout{err: &checkout.PersistenceError{
		OrderID:   "toast-42",
		PaymentID: "pay-7",
		Err:       context.DeadlineExceeded,
	}}

	w := doCheckout(t, svc, checkoutBody(t))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	// The customer has been charged: both ids must come back so they can
	// be quoted to support.
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["orderId"] != "toast-42" || resp["paymentId"] != "pay-7" {
		t.Errorf("expected order and payment ids in the response, got %v", resp)
	}
}

func TestSubmit_InvalidBody(t *testing.T) {
	svc := &stubCheckout{}

	w := doCheckout(t, svc, bytes.NewBufferString("{not json"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if svc.calls != 0 {
		t.Error("the workflow must not run for an unparseable body")
	}
}
