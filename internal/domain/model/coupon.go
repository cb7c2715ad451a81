package model

import "time"

// Coupon grants a fixed discount at order creation. The discount is folded
// into the order total once and never recomputed afterwards.
type Coupon struct {
	Code      string
	Discount  float64
	ExpiresAt *time.Time
}

// Valid reports whether the coupon may still be applied at the given time.
func (c *Coupon) Valid(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(now)
}
