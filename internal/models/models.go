package models

import "time"

// MenuItem represents a single item on the restaurant menu as returned
// by the POS. Items are immutable once fetched.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// CartLine is one line of a cart: a menu item reference plus quantity.
// A cart holds at most one line per menu item id.
type CartLine struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// CustomerInfo is the contact information collected at checkout.
// All fields are required before submission.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentInfo is the card data collected at checkout. Only field presence
// is validated; the POS performs the real card validation.
type PaymentInfo struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"` // MM/YY
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
}

// OrderStatus is the lifecycle status of a submitted order. Transitions
// are driven by the restaurant side, never by this client.
type OrderStatus string

const (
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderRecord is a submitted order. It is built client-side at submission
// time and enriched with server-assigned identifiers as each remote call
// succeeds: ID from the POS, PaymentID from the charge, BackendRef once
// persisted.
type OrderRecord struct {
	ID         string       `json:"id"`
	Items      []CartLine   `json:"items"`
	Customer   CustomerInfo `json:"customer"`
	Total      float64      `json:"total"`
	Timestamp  time.Time    `json:"timestamp"`
	Status     OrderStatus  `json:"status"`
	UserID     string       `json:"userId,omitempty"`
	PaymentID  string       `json:"paymentId,omitempty"`
	BackendRef string       `json:"backendRef,omitempty"`
	PromoCode  string       `json:"promoCode,omitempty"`
}

// Session is the authenticated identity context returned by the identity
// provider. Absence of a session means guest mode.
type Session struct {
	Username     string `json:"username"`
	AccessToken  string `json:"-"`
	IDToken      string `json:"-"`
	RefreshToken string `json:"-"`
}
