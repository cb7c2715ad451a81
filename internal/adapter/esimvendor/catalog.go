package esimvendor

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

const (
	policyCacheKeyPrefix = "esimshop:plan_policy:"
	policyCacheTTL       = time.Hour
)

// PlanCatalog answers activation-policy questions about vendor plans. The
// catalog call is advisory: any failure degrades to ACTIVATED_BY_DEVICE
// rather than blocking fulfillment. An optional redis cache cuts one vendor
// round-trip per line item.
type PlanCatalog struct {
	client Client
	cache  *redis.Client
	logger *slog.Logger
}

// NewPlanCatalog creates a catalog. cache may be nil to run uncached.
func NewPlanCatalog(client Client, cache *redis.Client, logger *slog.Logger) *PlanCatalog {
	return &PlanCatalog{client: client, cache: cache, logger: logger}
}

// PolicyFor resolves the activation policy for a vendor plan id.
func (p *PlanCatalog) PolicyFor(ctx context.Context, planID string) model.ActivationPolicy {
	if cached, ok := p.fromCache(ctx, planID); ok {
		return cached
	}

	plans, err := p.client.DataplanList(ctx)
	if err != nil {
		p.logger.Warn("plan catalog lookup failed, falling back to device activation",
			slog.String("plan_id", planID),
			slog.String("error", err.Error()),
		)
		return model.ActivatedByDevice
	}

	policy := model.ActivatedByDevice
	for _, plan := range plans {
		if plan.ChannelDataplanID != planID {
			continue
		}
		if plan.ActiveType == string(model.ActivatedByOrder) {
			policy = model.ActivatedByOrder
		}
		break
	}

	p.toCache(ctx, planID, policy)
	return policy
}

func (p *PlanCatalog) fromCache(ctx context.Context, planID string) (model.ActivationPolicy, bool) {
	if p.cache == nil {
		return "", false
	}
	val, err := p.cache.Get(ctx, policyCacheKeyPrefix+planID).Result()
	if err != nil {
		return "", false
	}
	switch model.ActivationPolicy(val) {
	case model.ActivatedByDevice, model.ActivatedByOrder:
		return model.ActivationPolicy(val), true
	}
	return "", false
}

func (p *PlanCatalog) toCache(ctx context.Context, planID string, policy model.ActivationPolicy) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, policyCacheKeyPrefix+planID, string(policy), policyCacheTTL).Err(); err != nil {
		p.logger.Warn("plan policy cache write failed", slog.String("error", err.Error()))
	}
}
