package di

import (
	"go.uber.org/fx"

	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/esimvendor"
	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/gateway"
	"github.com/bob1127/eSIM-pwa-sub000/internal/adapter/mailer"
	"github.com/bob1127/eSIM-pwa-sub000/internal/app"
	"github.com/bob1127/eSIM-pwa-sub000/internal/config"
	"github.com/bob1127/eSIM-pwa-sub000/internal/logger"
	"github.com/bob1127/eSIM-pwa-sub000/internal/pkg/signing"
	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/handlers"
	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/router"
	"github.com/bob1127/eSIM-pwa-sub000/internal/storage/postgres"
	"github.com/bob1127/eSIM-pwa-sub000/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		signing.Module,
		postgres.Module,
		esimvendor.Module,
		gateway.Module,
		mailer.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.ShopFacade) handlers.ShopFacade { return f },
			func(s *postgres.Storage) handlers.Pinger { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
