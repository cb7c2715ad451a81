package handlers

import (
	"context"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, contact model.ContactInfo, items []model.LineItem, totalPrice float64, couponCode string) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	OrderHistory(ctx context.Context, email string) ([]model.Order, error)
	CancelOrder(ctx context.Context, id string) error
}

// CheckoutFacade produces the payment-gateway redirect document.
type CheckoutFacade interface {
	PaymentForm(ctx context.Context, orderID string) (string, error)
}

// FulfillmentFacade provisions paid orders and manages notifications.
type FulfillmentFacade interface {
	FulfillOrder(ctx context.Context, orderID string) ([]model.FulfillmentRecord, error)
	ResendNotification(ctx context.Context, orderID string) error
}

// PlanFacade manages SKU to vendor plan id mappings.
type PlanFacade interface {
	UpsertPlanMapping(ctx context.Context, sku, planID string) error
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	OrderFacade
	CheckoutFacade
	FulfillmentFacade
	PlanFacade
}

// Pinger reports storage health for the health endpoint.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}
