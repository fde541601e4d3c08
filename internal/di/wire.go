//go:build wireinject
// +build wireinject

package di

import (
	"RateWatch/pkg/config"
	"RateWatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		ProvideCalendar,
		ProvideMarketData,
		ProvideEngine,

		ProvideOutlook,
		ProvideHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}
