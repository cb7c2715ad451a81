package gateway

import (
	"go.uber.org/fx"

	"github.com/bob1127/eSIM-pwa-sub000/internal/config"
)

// Module provides the payment form generator via fx.
var Module = fx.Provide(newGenerator)

type generatorParams struct {
	fx.In

	Config *config.Config
}

func newGenerator(p generatorParams) (*FormGenerator, error) {
	return New(
		p.Config.GatewayMPGURL,
		p.Config.GatewayMerchantID,
		p.Config.GatewayHashKey,
		p.Config.GatewayHashIV,
		p.Config.GatewayReturnURL,
		p.Config.GatewayNotifyURL,
	)
}
