// Package toast wraps the Toast POS HTTP API: menu fetch, order creation,
// payment capture and order status. Calls fail with the transport error
// unchanged; interpreting POS-specific error codes is left to the caller.
package toast

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/toastmobile/ordering/internal/models"
	"github.com/toastmobile/ordering/internal/remote"
)

// Client talks to the Toast API for a single restaurant. Every request
// carries the bearer token and the restaurant external id supplied at
// construction.
type Client struct {
	baseURL        string
	restaurantGUID string
	accessToken    string
	httpClient     *http.Client
}

// NewClient creates a Toast client. baseURL must already include the API
// version segment (e.g. https://ws-api.toasttab.com/v1). timeout bounds
// every request; in-flight requests are cancelled when it elapses.
func NewClient(baseURL, restaurantGUID, accessToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        baseURL,
		restaurantGUID: restaurantGUID,
		accessToken:    accessToken,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.accessToken)
	h.Set("Toast-Restaurant-External-ID", c.restaurantGUID)
	return h
}

// OrderItem is one line of an order payload sent to the POS.
type OrderItem struct {
	MenuItemID string  `json:"menuItemId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// OrderPayload is the order creation request body.
type OrderPayload struct {
	Items     []OrderItem         `json:"items"`
	Customer  models.CustomerInfo `json:"customer"`
	Total     float64             `json:"total"`
	Timestamp string              `json:"timestamp"`
	PromoCode string              `json:"promoCode,omitempty"`
}

// Order is the POS response to order creation and status fetch.
type Order struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status,omitempty"`
}

// PaymentMethod is the card detail block of a payment request.
type PaymentMethod struct {
	Type           string `json:"type"`
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
}

// PaymentPayload is the payment capture request body, tagged with the id
// of the POS order being paid for.
type PaymentPayload struct {
	OrderID       string        `json:"orderId"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Payment is the POS response to a successful charge.
type Payment struct {
	ID string `json:"id"`
}

type menuResponse struct {
	MenuItems []models.MenuItem `json:"menuItems"`
}

// GetMenu fetches the restaurant menu.
func (c *Client) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	var resp menuResponse
	url := c.baseURL + "/menus"
	if err := remote.DoJSON(ctx, c.httpClient, http.MethodGet, url, c.headers(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.MenuItems, nil
}

// CreateOrder creates an order in the POS and returns it with the
// POS-assigned id.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (*Order, error) {
	var order Order
	url := c.baseURL + "/orders"
	if err := remote.DoJSON(ctx, c.httpClient, http.MethodPost, url, c.headers(), payload, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, fmt.Errorf("POS returned an order without an id")
	}
	return &order, nil
}

// ProcessPayment charges the card for an existing POS order.
func (c *Client) ProcessPayment(ctx context.Context, payload PaymentPayload) (*Payment, error) {
	var payment Payment
	url := c.baseURL + "/payments"
	if err := remote.DoJSON(ctx, c.httpClient, http.MethodPost, url, c.headers(), payload, &payment); err != nil {
		return nil, err
	}
	if payment.ID == "" {
		return nil, fmt.Errorf("POS returned a payment without an id")
	}
	return &payment, nil
}

// GetOrderStatus fetches the current status of a POS order.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	var order Order
	url := c.baseURL + "/orders/" + orderID
	if err := remote.DoJSON(ctx, c.httpClient, http.MethodGet, url, c.headers(), nil, &order); err != nil {
		return "", err
	}
	return order.Status, nil
}
