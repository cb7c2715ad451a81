package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/esimvendor"
	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/repository"
	"github.com/bob1127/eSIM-pwa-sub000/internal/pkg/sku"
)

// activationLead keeps ACTIVATED_BY_ORDER plans from starting before the
// customer has a chance to install the profile.
const activationLead = 5 * time.Minute

const activationDateLayout = "2006-01-02 15:04:05"

// PolicySource answers activation-policy lookups for vendor plans.
type PolicySource interface {
	PolicyFor(ctx context.Context, planID string) model.ActivationPolicy
}

// Notifier delivers the QR code email for a fulfilled order.
type Notifier interface {
	SendQRCodes(ctx context.Context, order *model.Order) error
}

// FulfillmentUseCase drives the paid-order state transition: provision one
// eSIM per line item through the vendor, persist the QR payload, mark the
// order completed and notify the customer.
type FulfillmentUseCase struct {
	orders  repository.OrderRepository
	plans   repository.PlanRepository
	vendor  esimvendor.Client
	catalog PolicySource
	mail    Notifier
	logger  *slog.Logger

	now func() time.Time
}

// NewFulfillmentUseCase constructs FulfillmentUseCase.
func NewFulfillmentUseCase(
	orders repository.OrderRepository,
	plans repository.PlanRepository,
	vendor esimvendor.Client,
	catalog PolicySource,
	mail Notifier,
	logger *slog.Logger,
) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		orders:  orders,
		plans:   plans,
		vendor:  vendor,
		catalog: catalog,
		mail:    mail,
		logger:  logger,
		now:     time.Now,
	}
}

type resolvedItem struct {
	item   model.LineItem
	key    string
	planID string
}

// Fulfill provisions every line item of the order and returns the QR code
// records. The whole-order policy is strict all-or-nothing: any vendor
// failure aborts the run and the order is not marked completed, but records
// accumulated before the failure are persisted so a retry resumes without
// purchasing the same item twice.
func (u *FulfillmentUseCase) Fulfill(ctx context.Context, orderID string) ([]model.FulfillmentRecord, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Re-running fulfillment on a completed order would buy duplicate eSIMs
	// from the vendor, so it is refused before any vendor call.
	if order.Status == model.OrderStatusCompleted {
		return nil, domainErrors.ErrAlreadyFulfilled
	}
	if order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrInvalidTransition
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domainErrors.ErrValidation)
	}

	// Resolve every item before the first vendor call. One unmapped SKU
	// fails the whole order while its state is still untouched.
	resolved := make([]resolvedItem, len(order.Items))
	for i, item := range order.Items {
		key := sku.Normalize(item.SKU)
		planID := item.PlanID
		if planID == "" {
			planID, err = u.plans.PlanIDFor(ctx, key)
			if err != nil {
				if err == domainErrors.ErrNotFound {
					return nil, &domainErrors.MissingPlanMappingError{ProductName: item.ProductName, SKU: item.SKU}
				}
				return nil, err
			}
		}
		resolved[i] = resolvedItem{item: item, key: key, planID: planID}
	}

	records := append([]model.FulfillmentRecord(nil), order.Fulfillment...)
	index := make(map[string]int, len(records))
	for i, rec := range records {
		index[sku.Normalize(rec.SKU)] = i
	}

	for _, ri := range resolved {
		if i, ok := index[ri.key]; ok && records[i].QRCodeURL != "" {
			continue
		}

		if _, ok := index[ri.key]; !ok {
			topupID, err := u.subscribe(ctx, ri)
			if err != nil {
				return nil, u.abort(ctx, order, records, ri.item, err)
			}
			index[ri.key] = len(records)
			records = append(records, model.FulfillmentRecord{
				ProductName: ri.item.ProductName,
				SKU:         ri.item.SKU,
				TopupID:     topupID,
			})
		}

		// The topup exists but its QR code may still be missing, either from
		// this run or a previous aborted one.
		i := index[ri.key]
		qrcode, err := u.vendor.TopupDetail(ctx, records[i].TopupID)
		if err != nil {
			return nil, u.abort(ctx, order, records, ri.item, err)
		}
		records[i].QRCodeURL = qrcode
	}

	if err := u.orders.SetFulfillment(ctx, order.ID, records, true); err != nil {
		return nil, err
	}
	order.Status = model.OrderStatusCompleted
	order.Fulfillment = records

	// Delivery failure does not roll back the completed order; the order
	// stays unnotified and the background notifier retries.
	if err := u.deliver(ctx, order); err != nil {
		u.logger.Error("notification delivery failed, will retry",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return records, nil
}

func (u *FulfillmentUseCase) subscribe(ctx context.Context, ri resolvedItem) (string, error) {
	req := esimvendor.SubscribeRequest{
		PlanID:   ri.planID,
		Quantity: ri.item.Quantity,
	}
	if u.catalog.PolicyFor(ctx, ri.planID) == model.ActivatedByOrder {
		req.ActivationDate = u.now().Add(activationLead).UTC().Format(activationDateLayout)
	}
	return u.vendor.Subscribe(ctx, req)
}

// abort persists vendor state created before the failure so a retry resumes
// instead of re-purchasing, then reports which items are done and which failed.
func (u *FulfillmentUseCase) abort(ctx context.Context, order *model.Order, records []model.FulfillmentRecord, failed model.LineItem, cause error) error {
	if len(records) > len(order.Fulfillment) {
		if err := u.orders.SetFulfillment(ctx, order.ID, records, false); err != nil {
			u.logger.Error("persisting partial fulfillment failed",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	u.logger.Error("fulfillment aborted",
		slog.String("order_id", order.ID),
		slog.String("item", failed.ProductName),
		slog.Int("provisioned", len(records)),
		slog.String("error", cause.Error()),
	)
	return fmt.Errorf("item %q failed (%d of %d items already provisioned): %w",
		failed.ProductName, len(records), len(order.Items), cause)
}

// SendNotification delivers (or re-delivers) the QR code email for a
// completed order, decoupled from fulfillment itself.
func (u *FulfillmentUseCase) SendNotification(ctx context.Context, orderID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusCompleted || len(order.Fulfillment) == 0 {
		return fmt.Errorf("%w: order %s has nothing to deliver", domainErrors.ErrValidation, orderID)
	}
	return u.deliver(ctx, order)
}

// AwaitingNotification claims completed orders whose email has not been
// confirmed sent, for the background notifier.
func (u *FulfillmentUseCase) AwaitingNotification(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.ClaimUnnotified(ctx, limit)
}

func (u *FulfillmentUseCase) deliver(ctx context.Context, order *model.Order) error {
	if err := u.mail.SendQRCodes(ctx, order); err != nil {
		return &domainErrors.DeliveryError{OrderID: order.ID, Err: err}
	}
	if err := u.orders.MarkNotified(ctx, order.ID, u.now()); err != nil {
		return err
	}
	return nil
}
