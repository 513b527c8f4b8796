//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"livestat/internal"
	"livestat/internal/controllers"
	"livestat/internal/providers"
	"livestat/internal/services"
	"livestat/internal/storage"
	"livestat/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewZstdCompressor,
		storage.NewFileStore,
		services.NewRecordService,
		services.NewSummaryService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
