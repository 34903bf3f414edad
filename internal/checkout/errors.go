package checkout

import "fmt"

// The submission workflow fails in one of four distinct ways, and callers
// must be able to tell them apart: after a PaymentError or a
// PersistenceError the customer's card may already have been charged, so
// rendering a generic "try again" message is wrong.

// ValidationError is bad or missing user input. No remote call has been
// made when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OrderCreationError means POS order creation failed. No charge was
// attempted and nothing was persisted.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error {
	return e.Err
}

// PaymentError means the charge failed after the POS order was created.
// That order is left open in the POS (OrderID identifies it) so support
// can cancel it; this client does not cancel it itself.
type PaymentError struct {
	OrderID string
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed for order %s: %v", e.OrderID, e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// PersistenceError means the charge succeeded but saving the record to
// the backend failed. The money has moved: OrderID and PaymentID are the
// only handles left on the purchase and must be shown to the user.
type PersistenceError struct {
	OrderID   string
	PaymentID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order %s charged (payment %s) but could not be saved: %v", e.OrderID, e.PaymentID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
