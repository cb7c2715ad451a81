package repository

import "context"

// PlanRepository resolves normalized SKUs to vendor plan identifiers.
type PlanRepository interface {
	PlanIDFor(ctx context.Context, normalizedSKU string) (string, error)
	Upsert(ctx context.Context, normalizedSKU, planID string) error
}
