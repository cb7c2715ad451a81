package dto

import (
	"time"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// ContactInfo mirrors the checkout contact payload.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LineItem mirrors one cart entry in the create-order payload.
type LineItem struct {
	ProductName string  `json:"productName"`
	SKU         string  `json:"sku"`
	PlanID      string  `json:"planId,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// CreateOrderRequest is the POST /api/orders payload.
type CreateOrderRequest struct {
	OrderInfo  ContactInfo `json:"orderInfo"`
	Items      []LineItem  `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	CouponCode string      `json:"couponCode,omitempty"`
}

// CreateOrderResponse confirms order creation.
type CreateOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

// QRCode is one provisioned eSIM reference in responses.
type QRCode struct {
	ProductName string `json:"productName"`
	QRCodeURL   string `json:"qrcodeUrl"`
	TopupID     string `json:"topupId"`
}

// OrderResponse is the order-history/detail view of an order.
type OrderResponse struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	TotalPrice float64    `json:"totalPrice"`
	CouponCode string     `json:"couponCode,omitempty"`
	Discount   float64    `json:"discount,omitempty"`
	Items      []LineItem `json:"items"`
	Codes      []QRCode   `json:"codes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FromOrder converts a domain order into its response shape.
func FromOrder(order model.Order) OrderResponse {
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{
			ProductName: item.ProductName,
			SKU:         item.SKU,
			PlanID:      item.PlanID,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	var codes []QRCode
	for _, rec := range order.Fulfillment {
		codes = append(codes, QRCode{ProductName: rec.ProductName, QRCodeURL: rec.QRCodeURL, TopupID: rec.TopupID})
	}
	return OrderResponse{
		ID:         order.ID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
		CouponCode: order.CouponCode,
		Discount:   order.Discount,
		Items:      items,
		Codes:      codes,
		CreatedAt:  order.CreatedAt,
	}
}
