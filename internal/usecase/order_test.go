package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/test"
)

var testContact = model.ContactInfo{
	Name:  "Tan Wei",
	Email: "tan@example.com",
	Phone: "+60123456789",
}

func testItems() []model.LineItem {
	return []model.LineItem{{
		ProductName: "Malaysia eSIM Daily 500MB",
		SKU:         "MY-1DAY-DAILY500MB",
		UnitPrice:   199,
		Quantity:    1,
	}}
}

func newOrderUseCase(orders *test.OrderRepositoryStub, plans *test.PlanRepositoryStub, coupons *test.CouponRepositoryStub) *OrderUseCase {
	if orders == nil {
		orders = test.NewOrderRepositoryStub()
	}
	if plans == nil {
		plans = &test.PlanRepositoryStub{Mappings: map[string]string{
			"MY-1DAY-DAILY500MB": "Malaysia-Daily500MB-1-A0",
		}}
	}
	if coupons == nil {
		coupons = &test.CouponRepositoryStub{}
	}
	return NewOrderUseCase(orders, plans, coupons)
}

func TestCreateRejectsMissingContactFields(t *testing.T) {
	u := newOrderUseCase(nil, nil, nil)

	_, err := u.Create(context.Background(), model.ContactInfo{Name: "Tan Wei"}, testItems(), 199, "")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "email") || !strings.Contains(err.Error(), "phone") {
		t.Errorf("error should name missing fields, got %q", err.Error())
	}
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	u := newOrderUseCase(nil, nil, nil)

	_, err := u.Create(context.Background(), testContact, nil, 0, "")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsZeroQuantity(t *testing.T) {
	u := newOrderUseCase(nil, nil, nil)

	items := testItems()
	items[0].Quantity = 0

	_, err := u.Create(context.Background(), testContact, items, 199, "")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateFailsFastOnUnmappedSKU(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	u := newOrderUseCase(orders, &test.PlanRepositoryStub{}, nil)

	_, err := u.Create(context.Background(), testContact, testItems(), 199, "")

	var mapErr *domainErrors.MissingPlanMappingError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected MissingPlanMappingError, got %v", err)
	}
	if mapErr.SKU != "MY-1DAY-DAILY500MB" {
		t.Errorf("error SKU = %q", mapErr.SKU)
	}
	if len(orders.OrdersByID) != 0 {
		t.Error("no order should be stored when a SKU cannot be resolved")
	}
}

func TestCreateResolvesPlanIDIntoSnapshot(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	u := newOrderUseCase(orders, nil, nil)

	order, err := u.Create(context.Background(), testContact, testItems(), 199, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID == "" {
		t.Error("order id should be assigned")
	}
	if order.Status != model.OrderStatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if got := order.Items[0].PlanID; got != "Malaysia-Daily500MB-1-A0" {
		t.Errorf("resolved PlanID = %q", got)
	}
	if _, ok := orders.OrdersByID[order.ID]; !ok {
		t.Error("order should be persisted")
	}
}

func TestCreateKeepsProvidedPlanID(t *testing.T) {
	plans := &test.PlanRepositoryStub{}
	u := newOrderUseCase(nil, plans, nil)

	items := testItems()
	items[0].PlanID = "Malaysia-Daily500MB-1-A0"

	order, err := u.Create(context.Background(), testContact, items, 199, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Items[0].PlanID != "Malaysia-Daily500MB-1-A0" {
		t.Errorf("PlanID = %q", order.Items[0].PlanID)
	}
	if len(plans.Lookups) != 0 {
		t.Error("no lookup expected when the item already carries a plan id")
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateAppliesCoupon(t *testing.T) {
	coupons := &test.CouponRepositoryStub{Coupons: map[string]*model.Coupon{
		"WELCOME50": {Code: "WELCOME50", Discount: 50, ExpiresAt: timePtr(time.Now().Add(time.Hour))},
	}}
	u := newOrderUseCase(nil, nil, coupons)

	order, err := u.Create(context.Background(), testContact, testItems(), 199, "WELCOME50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TotalPrice != 149 {
		t.Errorf("TotalPrice = %v, want 149", order.TotalPrice)
	}
	if order.Discount != 50 {
		t.Errorf("Discount = %v, want 50", order.Discount)
	}
	if order.CouponCode != "WELCOME50" {
		t.Errorf("CouponCode = %q", order.CouponCode)
	}
}

func TestCreateClampsDiscountedTotalAtZero(t *testing.T) {
	coupons := &test.CouponRepositoryStub{Coupons: map[string]*model.Coupon{
		"BIG": {Code: "BIG", Discount: 500, ExpiresAt: timePtr(time.Now().Add(time.Hour))},
	}}
	u := newOrderUseCase(nil, nil, coupons)

	order, err := u.Create(context.Background(), testContact, testItems(), 199, "BIG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TotalPrice != 0 {
		t.Errorf("TotalPrice = %v, want 0", order.TotalPrice)
	}
}

func TestCreateRejectsExpiredCoupon(t *testing.T) {
	coupons := &test.CouponRepositoryStub{Coupons: map[string]*model.Coupon{
		"OLD": {Code: "OLD", Discount: 50, ExpiresAt: timePtr(time.Now().Add(-time.Hour))},
	}}
	u := newOrderUseCase(nil, nil, coupons)

	_, err := u.Create(context.Background(), testContact, testItems(), 199, "OLD")
	if !errors.Is(err, domainErrors.ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired, got %v", err)
	}
}

func TestCreateRejectsUnknownCoupon(t *testing.T) {
	u := newOrderUseCase(nil, nil, nil)

	_, err := u.Create(context.Background(), testContact, testItems(), 199, "NOPE")
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpsertPlanMappingNormalizesSKU(t *testing.T) {
	plans := &test.PlanRepositoryStub{}
	u := newOrderUseCase(nil, plans, nil)

	if err := u.UpsertPlanMapping(context.Background(), "  my-1day-daily500mb ", "Malaysia-Daily500MB-1-A0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plans.Mappings["MY-1DAY-DAILY500MB"]; got != "Malaysia-Daily500MB-1-A0" {
		t.Errorf("stored mapping = %q, want normalized key", got)
	}
}

func TestUpsertPlanMappingRejectsEmptyValues(t *testing.T) {
	u := newOrderUseCase(nil, &test.PlanRepositoryStub{}, nil)

	if err := u.UpsertPlanMapping(context.Background(), "  ", "Malaysia-Daily500MB-1-A0"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty sku, got %v", err)
	}
	if err := u.UpsertPlanMapping(context.Background(), "MY-1DAY-DAILY500MB", ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty plan id, got %v", err)
	}
}

func TestCancelUsesStatusTransition(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	orders.OrdersByID["ord-1"] = &model.Order{ID: "ord-1", Status: model.OrderStatusPending}
	u := newOrderUseCase(orders, nil, nil)

	if err := u.Cancel(context.Background(), "ord-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.OrdersByID["ord-1"].Status != model.OrderStatusCancelled {
		t.Errorf("status = %s, want cancelled", orders.OrdersByID["ord-1"].Status)
	}
}

func TestCancelCompletedOrderFails(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	orders.OrdersByID["ord-1"] = &model.Order{ID: "ord-1", Status: model.OrderStatusCompleted}
	u := newOrderUseCase(orders, nil, nil)

	if err := u.Cancel(context.Background(), "ord-1"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
