package test

import (
	"context"
	"sync"

	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/esimvendor"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// VendorClientStub mimics the eSIM vendor API.
type VendorClientStub struct {
	PlansFn     func(context.Context) ([]esimvendor.Dataplan, error)
	SubscribeFn func(context.Context, esimvendor.SubscribeRequest) (string, error)
	DetailFn    func(context.Context, string) (string, error)

	SubscribeCalls []esimvendor.SubscribeRequest
	DetailCalls    []string
}

// DataplanList returns configured plans or an empty catalog.
func (s *VendorClientStub) DataplanList(ctx context.Context) ([]esimvendor.Dataplan, error) {
	if s.PlansFn != nil {
		return s.PlansFn(ctx)
	}
	return nil, nil
}

// Subscribe tracks invocations and returns configured topup ids.
func (s *VendorClientStub) Subscribe(ctx context.Context, req esimvendor.SubscribeRequest) (string, error) {
	s.SubscribeCalls = append(s.SubscribeCalls, req)
	if s.SubscribeFn != nil {
		return s.SubscribeFn(ctx, req)
	}
	return "T1", nil
}

// TopupDetail tracks invocations and returns configured QR references.
func (s *VendorClientStub) TopupDetail(ctx context.Context, topupID string) (string, error) {
	s.DetailCalls = append(s.DetailCalls, topupID)
	if s.DetailFn != nil {
		return s.DetailFn(ctx, topupID)
	}
	return "https://cdn.example.com/q1.png", nil
}

// PolicySourceStub answers activation-policy lookups with a fixed value.
type PolicySourceStub struct {
	Policy model.ActivationPolicy
}

// PolicyFor returns the configured policy, defaulting to device activation.
func (s PolicySourceStub) PolicyFor(ctx context.Context, planID string) model.ActivationPolicy {
	if s.Policy == "" {
		return model.ActivatedByDevice
	}
	return s.Policy
}

// MailerStub records notification sends.
type MailerStub struct {
	SendFn func(context.Context, *model.Order) error
	Sent   []*model.Order
}

// SendQRCodes tracks invocations.
func (s *MailerStub) SendQRCodes(ctx context.Context, order *model.Order) error {
	s.Sent = append(s.Sent, order)
	if s.SendFn != nil {
		return s.SendFn(ctx, order)
	}
	return nil
}

// ShopFacadeStub provides controllable behaviour for handler tests.
type ShopFacadeStub struct {
	CreateOrderFn func(context.Context, model.ContactInfo, []model.LineItem, float64, string) (*model.Order, error)
	OrderFn       func(context.Context, string) (*model.Order, error)
	HistoryFn     func(context.Context, string) ([]model.Order, error)
	CancelFn      func(context.Context, string) error
	FormFn        func(context.Context, string) (string, error)
	FulfillFn     func(context.Context, string) ([]model.FulfillmentRecord, error)
	NotifyFn      func(context.Context, string) error
	UpsertPlanFn  func(context.Context, string, string) error
}

func (s ShopFacadeStub) CreateOrder(ctx context.Context, contact model.ContactInfo, items []model.LineItem, total float64, coupon string) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, contact, items, total, coupon)
	}
	return &model.Order{ID: "order-1", Contact: contact, Items: items, TotalPrice: total, Status: model.OrderStatusPending}, nil
}

func (s ShopFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

func (s ShopFacadeStub) OrderHistory(ctx context.Context, email string) ([]model.Order, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, email)
	}
	return []model.Order{{ID: "order-1", Status: model.OrderStatusPending}}, nil
}

func (s ShopFacadeStub) CancelOrder(ctx context.Context, id string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id)
	}
	return nil
}

func (s ShopFacadeStub) PaymentForm(ctx context.Context, orderID string) (string, error) {
	if s.FormFn != nil {
		return s.FormFn(ctx, orderID)
	}
	return "<html></html>", nil
}

func (s ShopFacadeStub) FulfillOrder(ctx context.Context, orderID string) ([]model.FulfillmentRecord, error) {
	if s.FulfillFn != nil {
		return s.FulfillFn(ctx, orderID)
	}
	return []model.FulfillmentRecord{{ProductName: "Plan", QRCodeURL: "https://cdn.example.com/q1.png", TopupID: "T1"}}, nil
}

func (s ShopFacadeStub) ResendNotification(ctx context.Context, orderID string) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, orderID)
	}
	return nil
}

func (s ShopFacadeStub) UpsertPlanMapping(ctx context.Context, sku, planID string) error {
	if s.UpsertPlanFn != nil {
		return s.UpsertPlanFn(ctx, sku, planID)
	}
	return nil
}

// DeliveryFacadeStub mimics worker interactions with the shop facade.
type DeliveryFacadeStub struct {
	Batches  [][]model.Order
	ClaimFn  func(context.Context, int) ([]model.Order, error)
	NotifyFn func(context.Context, string) error

	Delivered []string
	mu        sync.Mutex
	calls     int
}

// Lock exposes internal mutex for external synchronization.
func (s *DeliveryFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *DeliveryFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersAwaitingNotification returns batches from the configured queue.
func (s *DeliveryFacadeStub) OrdersAwaitingNotification(ctx context.Context, limit int) ([]model.Order, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.Batches) {
		return nil, nil
	}
	batch := s.Batches[s.calls]
	s.calls++
	return batch, nil
}

// ResendNotification tracks delivered order ids.
func (s *DeliveryFacadeStub) ResendNotification(ctx context.Context, orderID string) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, orderID)
	return nil
}
