package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyFulfilled  = errors.New("order already fulfilled")
	ErrCouponExpired     = errors.New("coupon expired")
)

// StoreError wraps a persistence failure so callers can tell the customer to
// retry instead of treating a lost write as success.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// MissingPlanMappingError names the line item whose SKU does not resolve to a
// vendor plan id. Fulfillment must not start while one of these exists.
type MissingPlanMappingError struct {
	ProductName string
	SKU         string
}

func (e *MissingPlanMappingError) Error() string {
	return fmt.Sprintf("item %q (sku %q) has no vendor plan mapping", e.ProductName, e.SKU)
}

// VendorError carries the eSIM vendor's response verbatim for diagnostics.
type VendorError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("vendor %s: code=%d msg=%q", e.Endpoint, e.Code, e.Message)
}

// GatewayError marks a payment-form generation failure. The order stays
// pending and the customer may retry.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("payment gateway: %v", e.Err) }
func (e *GatewayError) Unwrap() error { return e.Err }

// DeliveryError marks a notification email failure after provisioning.
// It never rolls back the order; the notifier retries delivery.
type DeliveryError struct {
	OrderID string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification for order %s: %v", e.OrderID, e.Err)
}
func (e *DeliveryError) Unwrap() error { return e.Err }
