package app

import (
	"context"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/usecase"
)

// ShopFacade aggregates storefront operations behind one application surface.
type ShopFacade struct {
	orders      *usecase.OrderUseCase
	checkout    *usecase.CheckoutUseCase
	fulfillment *usecase.FulfillmentUseCase
}

// NewShopFacade constructs the facade.
func NewShopFacade(orders *usecase.OrderUseCase, checkout *usecase.CheckoutUseCase, fulfillment *usecase.FulfillmentUseCase) *ShopFacade {
	return &ShopFacade{orders: orders, checkout: checkout, fulfillment: fulfillment}
}

func (f *ShopFacade) CreateOrder(ctx context.Context, contact model.ContactInfo, items []model.LineItem, totalPrice float64, couponCode string) (*model.Order, error) {
	return f.orders.Create(ctx, contact, items, totalPrice, couponCode)
}

func (f *ShopFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *ShopFacade) OrderHistory(ctx context.Context, email string) ([]model.Order, error) {
	return f.orders.ListByEmail(ctx, email)
}

func (f *ShopFacade) CancelOrder(ctx context.Context, id string) error {
	return f.orders.Cancel(ctx, id)
}

func (f *ShopFacade) PaymentForm(ctx context.Context, orderID string) (string, error) {
	return f.checkout.BuildPaymentForm(ctx, orderID)
}

func (f *ShopFacade) FulfillOrder(ctx context.Context, orderID string) ([]model.FulfillmentRecord, error) {
	return f.fulfillment.Fulfill(ctx, orderID)
}

func (f *ShopFacade) ResendNotification(ctx context.Context, orderID string) error {
	return f.fulfillment.SendNotification(ctx, orderID)
}

func (f *ShopFacade) OrdersAwaitingNotification(ctx context.Context, limit int) ([]model.Order, error) {
	return f.fulfillment.AwaitingNotification(ctx, limit)
}

func (f *ShopFacade) UpsertPlanMapping(ctx context.Context, sku, planID string) error {
	return f.orders.UpsertPlanMapping(ctx, sku, planID)
}
