package model

import "time"

// OrderStatus describes fulfillment lifecycle. Transitions are forward-only:
// a pending order becomes completed, failed or cancelled and never moves back.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransition reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s != OrderStatusPending {
		return false
	}
	switch next {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusCancelled:
		return true
	}
	return false
}

// ContactInfo identifies the customer on an order.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LineItem is a snapshot of one cart entry taken at order creation.
// Catalog changes after creation never alter it.
type LineItem struct {
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	PlanID      string  `json:"planId,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// FulfillmentRecord captures one successfully provisioned line item.
// Once the order is completed the record is never regenerated.
type FulfillmentRecord struct {
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	QRCodeURL   string `json:"qrcodeUrl"`
	TopupID     string `json:"topupId"`
}

// Order describes one customer purchase attempt. The ID doubles as the
// merchant trade number sent to the payment gateway.
type Order struct {
	ID          string
	Contact     ContactInfo
	Items       []LineItem
	TotalPrice  float64
	Status      OrderStatus
	CouponCode  string
	Discount    float64
	Fulfillment []FulfillmentRecord
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NotifiedAt  *time.Time
}
