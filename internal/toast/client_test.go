package toast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/toastmobile/ordering/internal/remote"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "test-guid", "test-token", 5*time.Second)
	return client, srv
}

func TestGetMenu_SendsAuthHeaders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/menus" {
			t.Errorf("expected path /menus, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if got := r.Header.Get("Toast-Restaurant-External-ID"); got != "test-guid" {
			t.Errorf("expected restaurant external id header, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"menuItems": []map[string]interface{}{
				{"id": "1", "name": "Burger", "price": 12.99},
				{"id": "2", "name": "Salad", "price": 10.99},
			},
		})
	})

	items, err := client.GetMenu(context.Background())
	if err != nil {
		t.Fatalf("GetMenu() unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 menu items, got %d", len(items))
	}

	if items[0].Name != "Burger" || items[0].Price != 12.99 {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestCreateOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("expected POST /orders, got %s %s", r.Method, r.URL.Path)
		}

		var payload OrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}

		if len(payload.Items) != 1 || payload.Items[0].MenuItemID != "1" {
			t.Errorf("unexpected payload items: %+v", payload.Items)
		}
		if payload.Total != 25.98 {
			t.Errorf("expected total 25.98, got %f", payload.Total)
		}

		json.NewEncoder(w).Encode(Order{ID: "toast-42"})
	})

	order, err := client.CreateOrder(context.Background(), OrderPayload{
		Items:     []OrderItem{{MenuItemID: "1", Quantity: 2, Price: 12.99}},
		Total:     25.98,
		Timestamp: "2026-01-02T15:04:05Z",
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	if order.ID != "toast-42" {
		t.Errorf("expected order id toast-42, got %s", order.ID)
	}
}

func TestCreateOrder_MissingID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	if _, err := client.CreateOrder(context.Background(), OrderPayload{}); err == nil {
		t.Error("expected error for response without an order id")
	}
}

func TestProcessPayment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments" {
			t.Errorf("expected POST /payments, got %s %s", r.Method, r.URL.Path)
		}

		var payload PaymentPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}

		if payload.OrderID != "toast-42" {
			t.Errorf("expected orderId toast-42, got %s", payload.OrderID)
		}
		if payload.PaymentMethod.Type != "CREDIT_CARD" {
			t.Errorf("expected CREDIT_CARD payment method, got %s", payload.PaymentMethod.Type)
		}

		json.NewEncoder(w).Encode(Payment{ID: "pay-7"})
	})

	payment, err := client.ProcessPayment(context.Background(), PaymentPayload{
		OrderID: "toast-42",
		Amount:  25.98,
		PaymentMethod: PaymentMethod{
			Type:           "CREDIT_CARD",
			CardNumber:     "4242424242424242",
			ExpiryDate:     "12/28",
			CVV:            "123",
			CardholderName: "Test User",
		},
	})
	if err != nil {
		t.Fatalf("ProcessPayment() unexpected error: %v", err)
	}

	if payment.ID != "pay-7" {
		t.Errorf("expected payment id pay-7, got %s", payment.ID)
	}
}

func TestGetOrderStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/toast-42" {
			t.Errorf("expected path /orders/toast-42, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Order{ID: "toast-42", Status: "PREPARING"})
	})

	status, err := client.GetOrderStatus(context.Background(), "toast-42")
	if err != nil {
		t.Fatalf("GetOrderStatus() unexpected error: %v", err)
	}

	if status != "PREPARING" {
		t.Errorf("expected status PREPARING, got %s", status)
	}
}

func TestClient_TransportErrorOnNon2xx(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := client.GetMenu(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}

	var terr *remote.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *remote.TransportError, got %T: %v", err, err)
	}

	if terr.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", terr.Status)
	}
}

func TestClient_TransportErrorOnConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, "guid", "token", time.Second)

	_, err := client.GetMenu(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable host")
	}

	var terr *remote.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *remote.TransportError, got %T: %v", err, err)
	}

	if terr.Status != 0 {
		t.Errorf("expected status 0 for connection failure, got %d", terr.Status)
	}
}
