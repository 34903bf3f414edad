// Package backend wraps the managed cloud backend: order persistence
// behind an API gateway endpoint and identity through a Cognito-style
// user pool. Both are thin HTTP wrappers; transport errors propagate
// unchanged.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/toastmobile/ordering/internal/models"
	"github.com/toastmobile/ordering/internal/remote"
)

// Client persists and reads order records through the backend API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a backend order client for the given API endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func authHeaders(accessToken string) http.Header {
	h := http.Header{}
	if accessToken != "" {
		h.Set("Authorization", "Bearer "+accessToken)
	}
	return h
}

// orderPayload is the wire form of an order record. The backend keys the
// POS order id as toastOrderId, matching the persisted schema.
type orderPayload struct {
	UserID       string              `json:"userId"`
	ToastOrderID string              `json:"toastOrderId"`
	PaymentID    string              `json:"paymentId"`
	Status       models.OrderStatus  `json:"status"`
	Items        []models.CartLine   `json:"items"`
	Customer     models.CustomerInfo `json:"customer"`
	Total        float64             `json:"total"`
	Timestamp    time.Time           `json:"timestamp"`
	PromoCode    string              `json:"promoCode,omitempty"`
}

type orderResponse struct {
	ID string `json:"id"`
	orderPayload
}

func (r orderResponse) toRecord() models.OrderRecord {
	return models.OrderRecord{
		ID:         r.ToastOrderID,
		Items:      r.Items,
		Customer:   r.Customer,
		Total:      r.Total,
		Timestamp:  r.Timestamp,
		Status:     r.Status,
		UserID:     r.UserID,
		PaymentID:  r.PaymentID,
		BackendRef: r.ID,
		PromoCode:  r.PromoCode,
	}
}

// SaveOrder persists a confirmed order record and returns the
// backend-assigned reference.
func (c *Client) SaveOrder(ctx context.Context, record models.OrderRecord, accessToken string) (string, error) {
	payload := orderPayload{
		UserID:       record.UserID,
		ToastOrderID: record.ID,
		PaymentID:    record.PaymentID,
		Status:       record.Status,
		Items:        record.Items,
		Customer:     record.Customer,
		Total:        record.Total,
		Timestamp:    record.Timestamp,
		PromoCode:    record.PromoCode,
	}

	var resp orderResponse
	url := c.endpoint + "/orders"
	if err := remote.DoJSON(ctx, c.httpClient, http.MethodPost, url, authHeaders(accessToken), payload, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("backend returned an order without a reference")
	}
	return resp.ID, nil
}

// GetUserOrders returns the order history for a user, newest ordering left
// to the backend.
func (c *Client) GetUserOrders(ctx context.Context, userID, accessToken string) ([]models.OrderRecord, error) {
	var resp []orderResponse
	url := c.endpoint + "/orders/user/" + userID
	if err := remote.DoJSON(ctx, c.httpClient, http.MethodGet, url, authHeaders(accessToken), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]models.OrderRecord, 0, len(resp))
	for _, r := range resp {
		records = append(records, r.toRecord())
	}
	return records, nil
}

// UpdateOrderStatus sets the status of a persisted order. Status
// transitions are driven by the restaurant side; this client only relays
// them.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderRef string, status models.OrderStatus, accessToken string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("unknown order status %q", status)
	}

	body := map[string]models.OrderStatus{"status": status}
	url := c.endpoint + "/orders/" + orderRef
	return remote.DoJSON(ctx, c.httpClient, http.MethodPut, url, authHeaders(accessToken), body, nil)
}
