package esimvendor

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/bob1127/eSIM-pwa-sub000/internal/config"
	"github.com/bob1127/eSIM-pwa-sub000/internal/pkg/signing"
)

// Module exposes the vendor client and plan catalog to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(newCatalog),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Signer *signing.Signer
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.VendorAPIAddress, p.Signer, p.Config.VendorTimeout, p.Logger)
}

type catalogParams struct {
	fx.In

	Config *config.Config
	Client Client
	Logger *slog.Logger
}

func newCatalog(p catalogParams) *PlanCatalog {
	var cache *redis.Client
	if p.Config.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: p.Config.RedisAddr})
	}
	return NewPlanCatalog(p.Client, cache, p.Logger)
}
