package di

import (
	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/app"
	"github.com/jmcastano/payflow/internal/config"
	"github.com/jmcastano/payflow/internal/logger"
	"github.com/jmcastano/payflow/internal/pkg/signature"
	"github.com/jmcastano/payflow/internal/server/http/handlers"
	"github.com/jmcastano/payflow/internal/server/http/router"
	"github.com/jmcastano/payflow/internal/storage/postgres"
	"github.com/jmcastano/payflow/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		signature.Module,
		postgres.Module,
		wompi.Module,
		usecase.Module,
		fx.Provide(func(facade *app.CheckoutFacade) handlers.CheckoutFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
