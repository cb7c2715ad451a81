package usecase

import (
	"go.uber.org/fx"

	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/esimvendor"
	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/gateway"
	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/mailer"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		NewOrderUseCase,
		NewFulfillmentUseCase,
		NewCheckoutUseCase,
	),
	fx.Provide(
		func(c *esimvendor.PlanCatalog) PolicySource { return c },
		func(m mailer.Mailer) Notifier { return m },
		func(g *gateway.FormGenerator) FormBuilder { return g },
	),
)
