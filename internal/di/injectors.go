//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"milktracker/internal"
	"milktracker/internal/controllers"
	"milktracker/internal/persistence"
	"milktracker/internal/providers"
	"milktracker/internal/services"
	"milktracker/internal/structures"
	"milktracker/internal/timeutil"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		timeutil.NewSystemClock,

		persistence.NewStorage,
		wire.FieldsOf(new(*persistence.Storage), "Meals", "Memories"),
		persistence.NewZstdCompressor,
		persistence.NewFileStateStore,

		services.NewSessionService,
		services.NewMemoriesService,
		wire.Bind(new(providers.MealsGaugeSource), new(services.SessionServiceInterface)),

		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		persistence.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
