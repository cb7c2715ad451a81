package test

import (
	"context"
	"time"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// StatusUpdate records one UpdateStatus invocation.
type StatusUpdate struct {
	OrderID string
	Status  model.OrderStatus
}

// FulfillmentSet records one SetFulfillment invocation.
type FulfillmentSet struct {
	OrderID   string
	Records   []model.FulfillmentRecord
	Completed bool
}

// OrderRepositoryStub stores orders in-memory and tracks mutations.
type OrderRepositoryStub struct {
	OrdersByID map[string]*model.Order

	CreateFn         func(context.Context, *model.Order) error
	GetFn            func(context.Context, string) (*model.Order, error)
	ListFn           func(context.Context, string) ([]model.Order, error)
	UpdateStatusFn   func(context.Context, string, model.OrderStatus) error
	SetFulfillmentFn func(context.Context, string, []model.FulfillmentRecord, bool) error
	MarkNotifiedFn   func(context.Context, string, time.Time) error
	ClaimFn          func(context.Context, int) ([]model.Order, error)

	StatusUpdates   []StatusUpdate
	FulfillmentSets []FulfillmentSet
	Notified        []string
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{OrdersByID: make(map[string]*model.Order)}
}

// Create stores order unless an override is configured.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.OrdersByID == nil {
		s.OrdersByID = make(map[string]*model.Order)
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	s.OrdersByID[order.ID] = order
	return nil
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	if order, ok := s.OrdersByID[id]; ok {
		return order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByEmail returns stored orders for the email.
func (s *OrderRepositoryStub) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, email)
	}
	var result []model.Order
	for _, order := range s.OrdersByID {
		if order.Contact.Email == email {
			result = append(result, *order)
		}
	}
	return result, nil
}

// UpdateStatus tracks the call and applies the transition in memory.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.StatusUpdates = append(s.StatusUpdates, StatusUpdate{OrderID: id, Status: status})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	order, ok := s.OrdersByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if !order.Status.CanTransition(status) {
		return domainErrors.ErrInvalidTransition
	}
	order.Status = status
	return nil
}

// SetFulfillment tracks the call and applies it in memory.
func (s *OrderRepositoryStub) SetFulfillment(ctx context.Context, id string, records []model.FulfillmentRecord, completed bool) error {
	s.FulfillmentSets = append(s.FulfillmentSets, FulfillmentSet{OrderID: id, Records: records, Completed: completed})
	if s.SetFulfillmentFn != nil {
		return s.SetFulfillmentFn(ctx, id, records, completed)
	}
	order, ok := s.OrdersByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if completed {
		if !order.Status.CanTransition(model.OrderStatusCompleted) {
			return domainErrors.ErrInvalidTransition
		}
		order.Status = model.OrderStatusCompleted
	}
	order.Fulfillment = records
	return nil
}

// MarkNotified tracks delivery confirmations.
func (s *OrderRepositoryStub) MarkNotified(ctx context.Context, id string, at time.Time) error {
	s.Notified = append(s.Notified, id)
	if s.MarkNotifiedFn != nil {
		return s.MarkNotifiedFn(ctx, id, at)
	}
	order, ok := s.OrdersByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.NotifiedAt = &at
	return nil
}

// ClaimUnnotified returns completed orders without a confirmed notification.
func (s *OrderRepositoryStub) ClaimUnnotified(ctx context.Context, limit int) ([]model.Order, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	var result []model.Order
	for _, order := range s.OrdersByID {
		if order.Status == model.OrderStatusCompleted && order.NotifiedAt == nil && len(result) < limit {
			result = append(result, *order)
		}
	}
	return result, nil
}

// PlanRepositoryStub resolves SKUs from a map.
type PlanRepositoryStub struct {
	Mappings map[string]string
	LookupFn func(context.Context, string) (string, error)
	Lookups  []string
}

// PlanIDFor resolves the SKU or returns not found.
func (s *PlanRepositoryStub) PlanIDFor(ctx context.Context, normalizedSKU string) (string, error) {
	s.Lookups = append(s.Lookups, normalizedSKU)
	if s.LookupFn != nil {
		return s.LookupFn(ctx, normalizedSKU)
	}
	if planID, ok := s.Mappings[normalizedSKU]; ok {
		return planID, nil
	}
	return "", domainErrors.ErrNotFound
}

// Upsert stores the mapping.
func (s *PlanRepositoryStub) Upsert(ctx context.Context, normalizedSKU, planID string) error {
	if s.Mappings == nil {
		s.Mappings = make(map[string]string)
	}
	s.Mappings[normalizedSKU] = planID
	return nil
}

// CouponRepositoryStub serves coupons from a map.
type CouponRepositoryStub struct {
	Coupons map[string]*model.Coupon
}

// GetByCode returns the coupon or not found.
func (s *CouponRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if coupon, ok := s.Coupons[code]; ok {
		return coupon, nil
	}
	return nil, domainErrors.ErrNotFound
}
