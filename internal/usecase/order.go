package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/repository"
	"github.com/bob1127/eSIM-pwa-sub000/internal/pkg/sku"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	plans   repository.PlanRepository
	coupons repository.CouponRepository

	now func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, plans repository.PlanRepository, coupons repository.CouponRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, plans: plans, coupons: coupons, now: time.Now}
}

// Create validates the checkout payload and inserts a pending order.
// Every line item must resolve to a vendor plan id here: a pending order that
// can never be fulfilled is a defect, so the check fails fast at creation.
func (u *OrderUseCase) Create(ctx context.Context, contact model.ContactInfo, items []model.LineItem, totalPrice float64, couponCode string) (*model.Order, error) {
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domainErrors.ErrValidation)
	}
	if totalPrice < 0 {
		return nil, fmt.Errorf("%w: total price is negative", domainErrors.ErrValidation)
	}

	snapshot := make([]model.LineItem, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %q has no quantity", domainErrors.ErrValidation, item.ProductName)
		}
		if item.PlanID == "" {
			planID, err := u.plans.PlanIDFor(ctx, sku.Normalize(item.SKU))
			if err != nil {
				if err == domainErrors.ErrNotFound {
					return nil, &domainErrors.MissingPlanMappingError{ProductName: item.ProductName, SKU: item.SKU}
				}
				return nil, err
			}
			item.PlanID = planID
		}
		snapshot[i] = item
	}

	var discount float64
	if couponCode != "" {
		coupon, err := u.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			if err == domainErrors.ErrNotFound {
				return nil, fmt.Errorf("%w: unknown coupon %q", domainErrors.ErrValidation, couponCode)
			}
			return nil, err
		}
		if !coupon.Valid(u.now()) {
			return nil, domainErrors.ErrCouponExpired
		}
		discount = coupon.Discount
	}

	total := totalPrice - discount
	if total < 0 {
		total = 0
	}

	order := &model.Order{
		ID:         uuid.NewString(),
		Contact:    contact,
		Items:      snapshot,
		TotalPrice: total,
		Status:     model.OrderStatusPending,
		CouponCode: couponCode,
		Discount:   discount,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// ListByEmail returns orders for the account history view, newest first.
func (u *OrderUseCase) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	return u.orders.ListByEmail(ctx, email)
}

// Cancel moves a pending order to cancelled.
func (u *OrderUseCase) Cancel(ctx context.Context, id string) error {
	return u.orders.UpdateStatus(ctx, id, model.OrderStatusCancelled)
}

// UpsertPlanMapping stores the vendor plan id for a storefront SKU. The SKU
// is normalized on the way in so lookups at order creation and fulfillment
// hit the same key.
func (u *OrderUseCase) UpsertPlanMapping(ctx context.Context, rawSKU, planID string) error {
	key := sku.Normalize(rawSKU)
	if key == "" {
		return fmt.Errorf("%w: sku is empty", domainErrors.ErrValidation)
	}
	if planID == "" {
		return fmt.Errorf("%w: plan id is empty", domainErrors.ErrValidation)
	}
	return u.plans.Upsert(ctx, key, planID)
}

func validateContact(contact model.ContactInfo) error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(contact.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(contact.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(contact.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing contact fields: %s", domainErrors.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
