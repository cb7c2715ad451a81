package repository

import (
	"context"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// CouponRepository reads discount coupons.
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}
