package repository

import (
	"context"
	"time"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]model.Order, error)
	// UpdateStatus applies a forward-only transition and rejects anything else.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	// SetFulfillment persists accumulated vendor records. When completed is
	// true the order status moves to completed in the same statement.
	SetFulfillment(ctx context.Context, id string, records []model.FulfillmentRecord, completed bool) error
	MarkNotified(ctx context.Context, id string, at time.Time) error
	// ClaimUnnotified selects completed orders whose notification email has
	// not been confirmed sent, locking them against concurrent claimers.
	ClaimUnnotified(ctx context.Context, limit int) ([]model.Order, error)
}
