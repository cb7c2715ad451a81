package usecase

import (
	"context"
	"strings"

	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/gateway"
	domainErrors "github.com/bob1127/eSIM-pwa-sub000/internal/domain/errors"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/repository"
)

// The gateway truncates item descriptions; keep ours inside their limit.
const maxItemDescLen = 50

// FormBuilder renders the gateway's encrypted auto-submit form.
type FormBuilder interface {
	BuildForm(req gateway.CheckoutRequest) (string, error)
}

// CheckoutUseCase turns a pending order into a payment-gateway redirect
// document. It reads the stored snapshot so the browser cannot alter totals.
type CheckoutUseCase struct {
	orders repository.OrderRepository
	forms  FormBuilder
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, forms FormBuilder) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, forms: forms}
}

// BuildPaymentForm produces the self-submitting HTML document for an order.
// Only pending orders may be sent to the gateway; no state is written.
func (u *CheckoutUseCase) BuildPaymentForm(ctx context.Context, orderID string) (string, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Status != model.OrderStatusPending {
		return "", domainErrors.ErrInvalidTransition
	}

	return u.forms.BuildForm(gateway.CheckoutRequest{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		Email:      order.Contact.Email,
		ItemDesc:   itemDesc(order.Items),
	})
}

func itemDesc(items []model.LineItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.ProductName)
	}
	desc := strings.Join(names, ", ")
	if runes := []rune(desc); len(runes) > maxItemDescLen {
		desc = string(runes[:maxItemDescLen])
	}
	return desc
}
